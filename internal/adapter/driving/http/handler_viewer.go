package httphandler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

// GetViewer returns the current document viewer state.
func (h *Handler) GetViewer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toViewerResponse(h.portfolio.Viewer.Snapshot()))
}

// OpenDocument mounts a document and blocks until its page count is resolved.
// A document that fails to resolve is reported as a failed viewer state, not
// as an HTTP error. The load itself is not tied to the request.
func (h *Handler) OpenDocument(w http.ResponseWriter, r *http.Request) {
	var req OpenDocumentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sourceURL := strings.TrimSpace(req.URL)
	if sourceURL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	session, err := h.portfolio.OpenDocument(r.Context(), sourceURL)

	var rerr *application.ResolutionError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The client went away; the load carries on for the next viewer read.
		h.logger.Debug("open document request ended early", "url", sourceURL, "error", err)
		return
	case errors.Is(err, application.ErrSuperseded):
		writeError(w, http.StatusConflict, "superseded by a newer document")
		return
	case errors.As(err, &rerr), err == nil:
		writeJSON(w, http.StatusOK, toViewerResponse(session))
		return
	default:
		h.logger.Error("failed to open document", "url", sourceURL, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// NextPage advances the viewer one page.
func (h *Handler) NextPage(w http.ResponseWriter, _ *http.Request) {
	h.writeTurn(w)(h.portfolio.Viewer.NextPage())
}

// PreviousPage moves the viewer back one page.
func (h *Handler) PreviousPage(w http.ResponseWriter, _ *http.Request) {
	h.writeTurn(w)(h.portfolio.Viewer.PreviousPage())
}

func (h *Handler) writeTurn(w http.ResponseWriter) func(model.ViewerSession, error) {
	return func(session model.ViewerSession, err error) {
		if errors.Is(err, application.ErrViewerNotReady) {
			writeError(w, http.StatusConflict, "viewer is not ready")
			return
		}
		if err != nil {
			h.logger.Error("failed to turn page", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, toViewerResponse(session))
	}
}

// CloseViewer unmounts the current document.
func (h *Handler) CloseViewer(w http.ResponseWriter, _ *http.Request) {
	h.portfolio.Viewer.Close()
	w.WriteHeader(http.StatusNoContent)
}
