// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/folio/internal/application"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 64 << 10

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	portfolio *application.Portfolio
	storage   Pinger
	logger    *slog.Logger
}

// NewHandler creates a Handler over the portfolio services. storage may be
// nil, in which case the health check does not check storage.
func NewHandler(portfolio *application.Portfolio, storage Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		portfolio: portfolio,
		storage:   storage,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers every /api/v1 route on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/certifications", h.ListCertifications)
	mux.HandleFunc("POST /api/v1/certifications", h.AddCertification)
	mux.HandleFunc("DELETE /api/v1/certifications/{id}", h.RemoveCertification)
	mux.HandleFunc("POST /api/v1/certifications/{id}/select", h.SelectCertification)
	mux.HandleFunc("DELETE /api/v1/certifications/selection", h.ClearSelection)

	mux.HandleFunc("GET /api/v1/viewer", h.GetViewer)
	mux.HandleFunc("POST /api/v1/viewer/open", h.OpenDocument)
	mux.HandleFunc("POST /api/v1/viewer/next", h.NextPage)
	mux.HandleFunc("POST /api/v1/viewer/previous", h.PreviousPage)
	mux.HandleFunc("DELETE /api/v1/viewer", h.CloseViewer)

	mux.HandleFunc("GET /api/v1/projects", h.ListProjects)

	mux.HandleFunc("GET /api/v1/theme", h.GetTheme)
	mux.HandleFunc("PUT /api/v1/theme", h.SetTheme)
	mux.HandleFunc("POST /api/v1/theme/toggle", h.ToggleTheme)

	mux.HandleFunc("GET /api/v1/profile", h.GetProfile)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with only the API routes registered,
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// GetProfile returns the home page content.
func (h *Handler) GetProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toProfileResponse(h.portfolio.Profile))
}

// Health reports service liveness and, when configured, storage reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Storage: "unchecked",
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.storage.Ping(ctx); err != nil {
			h.logger.Error("health check failed", "error", err)
			resp.Status = "degraded"
			resp.Storage = "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Storage = "ok"
	}

	writeJSON(w, http.StatusOK, resp)
}

// decodeBody decodes a size-limited JSON request body into v, rejecting
// unknown fields and trailing data.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
