package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// --- Mock implementations of the driven ports ---

type mockSlotStore struct {
	mu      sync.Mutex
	slots   map[string]model.Slot
	loadErr error
	saveErr error
	saves   int
}

func newMockSlotStore() *mockSlotStore {
	return &mockSlotStore{slots: make(map[string]model.Slot)}
}

func (m *mockSlotStore) Load(_ context.Context, name string) (model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return model.Slot{}, m.loadErr
	}
	slot, ok := m.slots[name]
	if !ok {
		return model.Slot{}, driven.ErrSlotNotFound
	}
	return slot, nil
}

func (m *mockSlotStore) Save(_ context.Context, slot model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	slot.UpdatedAt = time.Now().UTC()
	m.slots[slot.Name] = slot
	m.saves++
	return nil
}

func (m *mockSlotStore) put(name, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = model.Slot{Name: name, Payload: []byte(payload)}
}

func (m *mockSlotStore) payload(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[name]
	return string(slot.Payload), ok
}

func (m *mockSlotStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

type mockGitHubClient struct {
	repos     []model.RepositorySummary
	listErr   error
	topics    map[string][]string
	topicErrs map[string]error

	// listHook, when set, runs before ListRepositories returns.
	listHook func(ctx context.Context) error
}

func (m *mockGitHubClient) ListRepositories(ctx context.Context, _ string) ([]model.RepositorySummary, error) {
	if m.listHook != nil {
		if err := m.listHook(ctx); err != nil {
			return nil, err
		}
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.RepositorySummary, len(m.repos))
	copy(out, m.repos)
	return out, nil
}

func (m *mockGitHubClient) FetchTopics(_ context.Context, _, repo string) ([]string, error) {
	if err := m.topicErrs[repo]; err != nil {
		return nil, err
	}
	return m.topics[repo], nil
}

// mockResolver resolves page counts from a URL -> result table. A URL with a
// gate channel blocks until the gate is closed or the context ends.
type mockResolver struct {
	mu    sync.Mutex
	pages map[string]int
	errs  map[string]error
	gates map[string]chan struct{}
	calls []string
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		pages: make(map[string]int),
		errs:  make(map[string]error),
		gates: make(map[string]chan struct{}),
	}
}

func (m *mockResolver) PageCount(ctx context.Context, sourceURL string) (int, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sourceURL)
	gate := m.gates[sourceURL]
	pages, err := m.pages[sourceURL], m.errs[sourceURL]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if err != nil {
		return 0, err
	}
	if pages == 0 {
		return 0, errors.New("no such document")
	}
	return pages, nil
}

func (m *mockResolver) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
