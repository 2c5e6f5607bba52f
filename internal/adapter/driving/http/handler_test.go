package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/folio/internal/adapter/driving/http"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockSlotStore struct {
	mu    sync.Mutex
	slots map[string]model.Slot
}

func (m *mockSlotStore) Load(_ context.Context, name string) (model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[name]
	if !ok {
		return model.Slot{}, driven.ErrSlotNotFound
	}
	return slot, nil
}

func (m *mockSlotStore) Save(_ context.Context, slot model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slots == nil {
		m.slots = make(map[string]model.Slot)
	}
	m.slots[slot.Name] = slot
	return nil
}

type mockGitHubClient struct {
	repos   []model.RepositorySummary
	topics  map[string][]string
	listErr error
}

func (m *mockGitHubClient) ListRepositories(_ context.Context, _ string) ([]model.RepositorySummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.RepositorySummary, len(m.repos))
	copy(out, m.repos)
	return out, nil
}

func (m *mockGitHubClient) FetchTopics(_ context.Context, _, repo string) ([]string, error) {
	return m.topics[repo], nil
}

type mockResolver struct {
	pages map[string]int
}

func (m *mockResolver) PageCount(ctx context.Context, sourceURL string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if n, ok := m.pages[sourceURL]; ok {
		return n, nil
	}
	return 0, errors.New("404 not found")
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Helper functions ---

const sampleDoc = "https://example.com/sample-cert.pdf"

var testSeed = []model.Certification{
	{
		ID:          "seed-1",
		Title:       "Web Development Certification",
		Issuer:      "freeCodeCamp",
		IssueDate:   time.Date(2022, 5, 15, 0, 0, 0, 0, time.UTC),
		DocumentURL: sampleDoc,
	},
	{
		ID:          "seed-2",
		Title:       "AWS Certified Solutions Architect",
		Issuer:      "Amazon Web Services",
		IssueDate:   time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC),
		DocumentURL: sampleDoc,
		Description: "Distributed systems on AWS.",
	},
}

type testEnv struct {
	portfolio *application.Portfolio
	mux       http.Handler
}

func setupEnv(t *testing.T, gh *mockGitHubClient, pinger httphandler.Pinger) *testEnv {
	t.Helper()
	if gh == nil {
		gh = &mockGitHubClient{}
	}

	p := application.NewPortfolio(context.Background(), application.PortfolioDeps{
		Slots:        &mockSlotStore{},
		GitHub:       gh,
		Resolver:     &mockResolver{pages: map[string]int{sampleDoc: 3}},
		Account:      "octocat",
		Seed:         testSeed,
		Profile:      model.Profile{Name: "Ada", Headline: "Engineer", Bio: "Hello"},
		DefaultTheme: model.ThemeLight,
		Logger:       slog.Default(),
	})
	t.Cleanup(p.Close)

	h := httphandler.NewHandler(p, pinger, slog.Default())
	return &testEnv{portfolio: p, mux: httphandler.NewServeMux(h, slog.Default())}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

// --- Tests ---

func TestListCertifications(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodGet, "/api/v1/certifications", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.CertificationListResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Certifications, 2)
	assert.Equal(t, "seed-1", resp.Certifications[0].ID)
	assert.Equal(t, "2022-05-15", resp.Certifications[0].IssueDate)
	assert.Equal(t, sampleDoc, resp.Certifications[0].DocumentURL)
	assert.Empty(t, resp.SelectedID)
}

func TestAddCertification(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []string
	}{
		{
			name:       "valid",
			body:       `{"title":"CKA","issuer":"CNCF","issue_date":"2024-03-01","document_url":"https://x.io/c.pdf"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "every field missing",
			body:       `{}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"documentUrl", "issueDate", "issuer", "title"},
		},
		{
			name:       "bad url and date",
			body:       `{"title":"CKA","issuer":"CNCF","issue_date":"2024-13-45","document_url":"not a url"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"documentUrl", "issueDate"},
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"title":"CKA","owner":"me"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, nil, nil)

			rec := env.do(http.MethodPost, "/api/v1/certifications", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			switch tt.wantStatus {
			case http.StatusCreated:
				var resp httphandler.CertificationResponse
				decodeJSON(t, rec, &resp)
				assert.NotEmpty(t, resp.ID)
				assert.Equal(t, "CKA", resp.Title)
				assert.Len(t, env.portfolio.Certifications.List(), 3)
			case http.StatusUnprocessableEntity:
				var resp httphandler.ValidationResponse
				decodeJSON(t, rec, &resp)
				fields := make([]string, 0, len(resp.Fields))
				for _, f := range resp.Fields {
					fields = append(fields, f.Field)
					assert.NotEmpty(t, f.Message)
				}
				assert.Equal(t, tt.wantFields, fields)
				assert.Len(t, env.portfolio.Certifications.List(), 2, "rejected submissions never reach the store")
			}
		})
	}
}

func TestRemoveCertification(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodDelete, "/api/v1/certifications/seed-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, env.portfolio.Certifications.List(), 1)

	rec = env.do(http.MethodDelete, "/api/v1/certifications/missing", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, env.portfolio.Certifications.List(), 1)
}

func TestSelectCertification_OpensViewer(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodPost, "/api/v1/certifications/seed-2/select", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return env.portfolio.Viewer.Snapshot().LoadState == model.LoadStateReady
	}, time.Second, time.Millisecond)

	rec = env.do(http.MethodGet, "/api/v1/viewer", "")
	var viewer httphandler.ViewerResponse
	decodeJSON(t, rec, &viewer)
	assert.True(t, viewer.Active)
	assert.Equal(t, "ready", viewer.State)
	assert.Equal(t, 3, viewer.PageCount)
	assert.Equal(t, 1, viewer.CurrentPage)
	assert.True(t, viewer.HasNext)

	rec = env.do(http.MethodGet, "/api/v1/certifications", "")
	var list httphandler.CertificationListResponse
	decodeJSON(t, rec, &list)
	assert.Equal(t, "seed-2", list.SelectedID)

	rec = env.do(http.MethodDelete, "/api/v1/certifications/selection", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, env.portfolio.Viewer.Snapshot().Active)
}

func TestSelectCertification_NotFound(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodPost, "/api/v1/certifications/missing/select", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewerNavigation(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodPost, "/api/v1/viewer/next", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "navigation before a document is ready")

	rec = env.do(http.MethodPost, "/api/v1/viewer/open", `{"url":"`+sampleDoc+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	for range 5 {
		rec = env.do(http.MethodPost, "/api/v1/viewer/next", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	var viewer httphandler.ViewerResponse
	decodeJSON(t, rec, &viewer)
	assert.Equal(t, 3, viewer.CurrentPage, "clamped to the last page")
	assert.False(t, viewer.HasNext)

	rec = env.do(http.MethodPost, "/api/v1/viewer/previous", "")
	decodeJSON(t, rec, &viewer)
	assert.Equal(t, 2, viewer.CurrentPage)

	rec = env.do(http.MethodDelete, "/api/v1/viewer", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, env.portfolio.Viewer.Snapshot().Active)
}

func TestOpenDocument_Failure(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodPost, "/api/v1/viewer/open", `{"url":"https://x.io/missing.pdf"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var viewer httphandler.ViewerResponse
	decodeJSON(t, rec, &viewer)
	assert.Equal(t, "failed", viewer.State)
	assert.NotEmpty(t, viewer.Error)
	assert.Zero(t, viewer.PageCount)
}

func TestOpenDocument_MissingURL(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodPost, "/api/v1/viewer/open", `{"url":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProjects(t *testing.T) {
	gh := &mockGitHubClient{
		repos: []model.RepositorySummary{
			{ID: 1, Name: "alpha", Description: "Go tool", HTMLURL: "https://github.com/octocat/alpha"},
			{ID: 2, Name: "beta", HTMLURL: "https://github.com/octocat/beta"},
		},
		topics: map[string][]string{"alpha": {"go", "cli"}, "beta": {"web"}},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "unfiltered", query: "", want: []string{"alpha", "beta"}},
		{name: "text", query: "?q=GO", want: []string{"alpha"}},
		{name: "tag", query: "?tag=web", want: []string{"beta"}},
		{name: "any tag", query: "?tag=cli&tag=web", want: []string{"alpha", "beta"}},
		{name: "text and tag", query: "?q=go&tag=web", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, gh, nil)

			rec := env.do(http.MethodGet, "/api/v1/projects"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var resp httphandler.ProjectsResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, "ready", resp.State)
			assert.Equal(t, "octocat", resp.Account)
			assert.Equal(t, 2, resp.Total)
			assert.Equal(t, []string{"cli", "go", "web"}, resp.Topics)

			names := make([]string, 0, len(resp.Repositories))
			for _, r := range resp.Repositories {
				names = append(names, r.Name)
				assert.NotNil(t, r.Topics)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestListProjects_FetchFailure(t *testing.T) {
	env := setupEnv(t, &mockGitHubClient{listErr: errors.New("boom")}, nil)

	rec := env.do(http.MethodGet, "/api/v1/projects", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp httphandler.ProjectsResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "failed", resp.State)
	assert.Equal(t, "Failed to load repositories", resp.Error)
	assert.Empty(t, resp.Repositories)
}

func TestTheme(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodGet, "/api/v1/theme", "")
	var resp httphandler.ThemeResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "light", resp.Theme)

	rec = env.do(http.MethodPost, "/api/v1/theme/toggle", "")
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "dark", resp.Theme)

	rec = env.do(http.MethodPut, "/api/v1/theme", `{"theme":"LIGHT"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "light", resp.Theme)

	rec = env.do(http.MethodPut, "/api/v1/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ThemeLight, env.portfolio.Theme.Current())
}

func TestGetProfile(t *testing.T) {
	env := setupEnv(t, nil, nil)

	rec := env.do(http.MethodGet, "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "Ada", resp["name"])
	links, ok := resp["links"].([]any)
	require.True(t, ok, "links is an array, not null")
	assert.Empty(t, links)
	skills, ok := resp["skills"].([]any)
	require.True(t, ok, "skills is an array, not null")
	assert.Empty(t, skills)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name        string
		pinger      httphandler.Pinger
		wantStatus  int
		wantStorage string
	}{
		{name: "no storage pinger", pinger: nil, wantStatus: http.StatusOK, wantStorage: "unchecked"},
		{name: "storage ok", pinger: &mockPinger{}, wantStatus: http.StatusOK, wantStorage: "ok"},
		{name: "storage down", pinger: &mockPinger{err: errors.New("closed")}, wantStatus: http.StatusServiceUnavailable, wantStorage: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, nil, tt.pinger)

			rec := env.do(http.MethodGet, "/api/v1/health", "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp httphandler.HealthResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.wantStorage, resp.Storage)
			assert.NotEmpty(t, resp.Time)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])
}

func TestOpenDocument_AbandonedRequestStillLoads(t *testing.T) {
	env := setupEnv(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/viewer/open", strings.NewReader(`{"url":"`+sampleDoc+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(ctx)
	env.mux.ServeHTTP(httptest.NewRecorder(), req)

	require.Eventually(t, func() bool {
		return env.portfolio.Viewer.Snapshot().LoadState == model.LoadStateReady
	}, time.Second, 5*time.Millisecond)

	s := env.portfolio.Viewer.Snapshot()
	assert.Equal(t, sampleDoc, s.SourceURL)
	assert.Equal(t, 3, s.PageCount)
	assert.Empty(t, s.Err)
}
