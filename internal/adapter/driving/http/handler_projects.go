package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/folio/internal/application"
)

// ListProjects re-fetches the account's repositories and returns those
// matching the optional q and repeated tag query parameters. The tag list in
// the response always covers the unfiltered listing.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	browser := h.portfolio.Projects

	_, err := browser.Load(r.Context())

	var ferr *application.FetchError
	switch {
	case errors.As(err, &ferr):
		writeJSON(w, http.StatusBadGateway, ProjectsResponse{
			State:        string(browser.Snapshot().State),
			Account:      browser.Account(),
			Error:        "Failed to load repositories",
			Repositories: []RepositoryResponse{},
			Topics:       []string{},
		})
		return
	case err != nil && !errors.Is(err, application.ErrSuperseded):
		h.logger.Error("failed to load projects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// A superseded load still answers with the newest available state.
	snap := browser.Snapshot()
	query := r.URL.Query()
	filter := application.RepositoryFilter{
		Query: query.Get("q"),
		Tags:  application.NewTagSelection(query["tag"]...).Tags(),
	}
	filtered := application.FilterRepositories(snap.Repositories, filter)

	resp := ProjectsResponse{
		State:        string(snap.State),
		Account:      browser.Account(),
		Total:        len(snap.Repositories),
		Repositories: make([]RepositoryResponse, 0, len(filtered)),
		Topics:       application.AllTopics(snap.Repositories),
	}
	for _, repo := range filtered {
		resp.Repositories = append(resp.Repositories, toRepositoryResponse(repo))
	}

	writeJSON(w, http.StatusOK, resp)
}
