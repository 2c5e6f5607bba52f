package model

import "time"

// RepositorySummary represents a public repository listed on the projects page.
// It is fetched from GitHub on every projects page visit and never persisted.
type RepositorySummary struct {
	ID          int64
	Name        string
	Description string
	HTMLURL     string
	Homepage    string
	Stars       int
	Forks       int
	UpdatedAt   time.Time
	Topics      []string // Never nil; empty when the topic request failed.
}

// HasTopic reports whether the repository is tagged with topic.
func (r RepositorySummary) HasTopic(topic string) bool {
	for _, t := range r.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
