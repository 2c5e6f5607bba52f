package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/folio/internal/application"
)

// ListCertifications returns the collection in display order along with the
// current selection.
func (h *Handler) ListCertifications(w http.ResponseWriter, _ *http.Request) {
	store := h.portfolio.Certifications

	certs := store.List()
	resp := CertificationListResponse{
		Certifications: make([]CertificationResponse, 0, len(certs)),
	}
	for _, c := range certs {
		resp.Certifications = append(resp.Certifications, toCertificationResponse(c))
	}
	if sel := store.Selected(); sel != nil {
		resp.SelectedID = sel.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddCertification validates and adds a certification.
func (h *Handler) AddCertification(w http.ResponseWriter, r *http.Request) {
	var req CertificationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cert, err := h.portfolio.Form.Submit(r.Context(), application.CertificationFormInput{
		Title:       req.Title,
		Issuer:      req.Issuer,
		IssueDate:   req.IssueDate,
		DocumentURL: req.DocumentURL,
		Description: req.Description,
	})

	var verr *application.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, toValidationResponse(verr))
		return
	}
	if err != nil {
		h.logger.Error("failed to add certification", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCertificationResponse(cert))
}

// RemoveCertification deletes a certification. Removing an unknown id
// succeeds without effect.
func (h *Handler) RemoveCertification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.portfolio.Certifications.Remove(r.Context(), id)

	var perr *application.PersistenceError
	if errors.As(err, &perr) {
		// Removed for this session; the store already logged the failure.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logger.Error("failed to remove certification", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SelectCertification selects a stored certification for viewing. The
// document loads in the background; poll GET /api/v1/viewer for its state.
func (h *Handler) SelectCertification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	cert, err := h.portfolio.Certifications.SelectByID(id)
	if errors.Is(err, application.ErrCertificationNotFound) {
		writeError(w, http.StatusNotFound, "certification not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to select certification", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusAccepted, toCertificationResponse(cert))
}

// ClearSelection clears the selection, which also closes the viewer.
func (h *Handler) ClearSelection(w http.ResponseWriter, _ *http.Request) {
	h.portfolio.Certifications.Select(nil)
	w.WriteHeader(http.StatusNoContent)
}
