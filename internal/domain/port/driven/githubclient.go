package driven

import (
	"context"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// GitHubClient defines the driven port for reading public repository data.
type GitHubClient interface {
	// ListRepositories returns the account's repositories, most recently
	// updated first. Topics are not populated.
	ListRepositories(ctx context.Context, account string) ([]model.RepositorySummary, error)
	// FetchTopics returns the topic names of a single repository.
	FetchTopics(ctx context.Context, account, repo string) ([]string, error)
}
