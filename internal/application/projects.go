package application

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// DefaultFetchTimeout bounds one full repository listing, topics included.
const DefaultFetchTimeout = 15 * time.Second

// topicConcurrency caps parallel topic requests per listing.
const topicConcurrency = 8

// ProjectsSnapshot is the latest state of the repository listing.
type ProjectsSnapshot struct {
	State        model.LoadState
	Repositories []model.RepositorySummary
	Err          string // Set when State is LoadStateFailed.
	LoadedAt     time.Time
}

// ProjectsBrowser fetches an account's public repositories with their topics.
// Each Load supersedes earlier ones: a listing that completes after a newer
// Load started is discarded.
type ProjectsBrowser struct {
	client  driven.GitHubClient
	account string
	timeout time.Duration
	logger  *slog.Logger

	mu         sync.Mutex
	generation uint64
	snapshot   ProjectsSnapshot

	observers observers[ProjectsSnapshot]
}

// NewProjectsBrowser creates a browser for account. timeout <= 0 uses
// DefaultFetchTimeout.
func NewProjectsBrowser(client driven.GitHubClient, account string, timeout time.Duration, logger *slog.Logger) *ProjectsBrowser {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &ProjectsBrowser{
		client:  client,
		account: account,
		timeout: timeout,
		logger:  logger,
		snapshot: ProjectsSnapshot{
			State:        model.LoadStateLoading,
			Repositories: []model.RepositorySummary{},
		},
	}
}

// Account returns the GitHub account whose repositories are listed.
func (b *ProjectsBrowser) Account() string {
	return b.account
}

// Load re-fetches the repository listing. A failed topic request degrades
// that repository's topics to empty; only a failed list request fails the
// load, with a *FetchError. Returns ErrSuperseded if a newer Load started
// before this one finished.
func (b *ProjectsBrowser) Load(ctx context.Context) ([]model.RepositorySummary, error) {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.snapshot = ProjectsSnapshot{State: model.LoadStateLoading, Repositories: []model.RepositorySummary{}}
	loading := b.snapshot
	b.mu.Unlock()

	b.observers.notify(loading)

	fetchCtx, cancel := context.WithTimeout(ctx, b.timeout)
	start := time.Now()
	repos, err := b.fetch(fetchCtx)
	cancel()

	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		b.logger.Debug("discarding stale repository listing", "account", b.account, "generation", gen)
		return nil, ErrSuperseded
	}
	if err != nil {
		b.snapshot = ProjectsSnapshot{
			State:        model.LoadStateFailed,
			Repositories: []model.RepositorySummary{},
			Err:          err.Error(),
		}
	} else {
		b.snapshot = ProjectsSnapshot{
			State:        model.LoadStateReady,
			Repositories: repos,
			LoadedAt:     time.Now().UTC(),
		}
	}
	settled := b.snapshot
	b.mu.Unlock()

	b.observers.notify(settled)

	if err != nil {
		b.logger.Error("failed to load repositories", "account", b.account, "error", err)
		return nil, err
	}

	b.logger.Info("repositories loaded",
		"account", b.account,
		"count", len(repos),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return slices.Clone(repos), nil
}

func (b *ProjectsBrowser) fetch(ctx context.Context) ([]model.RepositorySummary, error) {
	repos, err := b.client.ListRepositories(ctx, b.account)
	if err != nil {
		return nil, &FetchError{Account: b.account, Err: err}
	}

	var g errgroup.Group
	g.SetLimit(topicConcurrency)

	for i := range repos {
		g.Go(func() error {
			topics, err := b.client.FetchTopics(ctx, b.account, repos[i].Name)
			if err != nil {
				terr := &TagFetchError{Repository: repos[i].Name, Err: err}
				b.logger.Warn("topics unavailable, continuing without tags", "error", terr)
				topics = []string{}
			}
			if topics == nil {
				topics = []string{}
			}
			repos[i].Topics = topics
			return nil
		})
	}
	// Topic failures are absorbed above, so Wait never reports an error.
	_ = g.Wait()

	return repos, nil
}

// Snapshot returns the latest listing state.
func (b *ProjectsBrowser) Snapshot() ProjectsSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := b.snapshot
	snap.Repositories = slices.Clone(b.snapshot.Repositories)
	return snap
}

// Subscribe registers fn to be called with every new listing state and
// returns a function that unregisters it.
func (b *ProjectsBrowser) Subscribe(fn func(ProjectsSnapshot)) func() {
	return b.observers.subscribe(fn)
}

// RepositoryFilter holds the client-side search criteria of the projects page.
type RepositoryFilter struct {
	Query string
	Tags  []string
}

// FilterRepositories returns the repositories matching f, preserving order.
// A repository matches when the query is empty or is a case-insensitive
// substring of its name or description, and when no tags are selected or
// at least one selected tag is among its topics.
func FilterRepositories(repos []model.RepositorySummary, f RepositoryFilter) []model.RepositorySummary {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.RepositorySummary, 0, len(repos))
	for _, r := range repos {
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Name), query) &&
			!strings.Contains(strings.ToLower(r.Description), query) {
			continue
		}
		if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, r.HasTopic) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// AllTopics returns every topic used by repos, sorted and de-duplicated.
func AllTopics(repos []model.RepositorySummary) []string {
	var topics []string
	for _, r := range repos {
		topics = append(topics, r.Topics...)
	}
	slices.Sort(topics)
	topics = slices.Compact(topics)
	if topics == nil {
		topics = []string{}
	}
	return topics
}

// TagSelection is an unbounded toggle set of selected tags. The zero value
// is an empty selection. Methods never mutate the receiver's backing array.
type TagSelection struct {
	tags []string
}

// NewTagSelection builds a selection from tags, dropping blanks and duplicates.
func NewTagSelection(tags ...string) TagSelection {
	var sel TagSelection
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !sel.Contains(t) {
			sel.tags = append(sel.tags, t)
		}
	}
	return sel
}

// Toggle returns a selection with tag added if absent or removed if present.
func (s TagSelection) Toggle(tag string) TagSelection {
	if idx := slices.Index(s.tags, tag); idx >= 0 {
		return TagSelection{tags: slices.Delete(slices.Clone(s.tags), idx, idx+1)}
	}
	return TagSelection{tags: append(slices.Clone(s.tags), tag)}
}

// Contains reports whether tag is selected.
func (s TagSelection) Contains(tag string) bool {
	return slices.Contains(s.tags, tag)
}

// Tags returns the selected tags in selection order.
func (s TagSelection) Tags() []string {
	return slices.Clone(s.tags)
}

// Len returns the number of selected tags.
func (s TagSelection) Len() int {
	return len(s.tags)
}
