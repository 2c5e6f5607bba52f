// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh     *gh.Client
	logger *slog.Logger
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, authenticated only when token is non-empty)
//
// Public repository data needs no token; one only raises the rate limit.
func NewClient(token string, logger *slog.Logger) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{gh: client, logger: logger}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, logger *slog.Logger) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	client.BaseURL = u

	return &Client{gh: client, logger: logger}, nil
}

// ListRepositories retrieves the public repositories of account, most recently
// updated first. It handles pagination automatically and maps go-github types
// to domain model types. Topics are left empty; see FetchTopics.
func (c *Client) ListRepositories(ctx context.Context, account string) ([]model.RepositorySummary, error) {
	if err := validateName(account); err != nil {
		return nil, err
	}

	opts := &gh.RepositoryListByUserOptions{
		Sort: "updated",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var all []model.RepositorySummary

	for {
		repos, resp, err := c.gh.Repositories.ListByUser(ctx, account, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s (page %d): %w", account, opts.Page, err)
		}

		c.logRateLimit(resp, account+"/repos", opts.Page, len(repos))

		for _, repo := range repos {
			all = append(all, mapRepository(repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if all == nil {
		all = []model.RepositorySummary{}
	}

	return all, nil
}

// FetchTopics retrieves the topic names of a single repository.
func (c *Client) FetchTopics(ctx context.Context, account, repo string) ([]string, error) {
	if err := validateName(account); err != nil {
		return nil, err
	}
	if err := validateName(repo); err != nil {
		return nil, err
	}

	topics, resp, err := c.gh.Repositories.ListAllTopics(ctx, account, repo)
	if err != nil {
		return nil, fmt.Errorf("listing topics for %s/%s: %w", account, repo, err)
	}

	c.logRateLimit(resp, account+"/"+repo+"/topics", 0, len(topics))

	if topics == nil {
		topics = []string{}
	}

	return topics, nil
}

// mapRepository converts a go-github Repository to a domain model RepositorySummary.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepository(r *gh.Repository) model.RepositorySummary {
	return model.RepositorySummary{
		ID:          r.GetID(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		HTMLURL:     r.GetHTMLURL(),
		Homepage:    r.GetHomepage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		UpdatedAt:   r.GetUpdatedAt().Time,
		Topics:      []string{}, // Filled by the projects browser from FetchTopics.
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func (c *Client) logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	c.logger.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 10 {
		c.logger.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// validateName checks that name is a single GitHub path segment: an account
// login or a repository name.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid name %q: must not be empty", name)
	}
	for _, ch := range name {
		if !isValidNameChar(ch) {
			return fmt.Errorf("invalid name %q: unexpected character %q", name, ch)
		}
	}
	return nil
}

// isValidNameChar returns true if the rune is allowed in an account or repository name.
func isValidNameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
