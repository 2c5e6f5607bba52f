package httphandler

import (
	"net/http"
	"strings"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// GetTheme returns the active theme.
func (h *Handler) GetTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: string(h.portfolio.Theme.Current())})
}

// SetTheme sets the theme to light or dark.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	theme := model.Theme(strings.ToLower(strings.TrimSpace(req.Theme)))
	if !theme.Valid() {
		writeError(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}

	current, err := h.portfolio.Theme.Set(r.Context(), theme)
	if err != nil {
		h.logger.Error("failed to set theme", "theme", theme, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ThemeResponse{Theme: string(current)})
}

// ToggleTheme switches between light and dark.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme := h.portfolio.Theme.Toggle(r.Context())
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: string(theme)})
}
