// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/folio/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	portfolio *application.Portfolio
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(portfolio *application.Portfolio, logger *slog.Logger) *Handler {
	return &Handler{
		portfolio: portfolio,
		logger:    logger,
	}
}

// page describes one rendered page for render.
type page struct {
	title   string
	nav     string
	status  int
	refresh bool
}

// render wraps body in the layout and writes it. csrf is the token already
// issued for this request.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, p page, csrf string, body templ.Component) {
	layout := templates.Layout(vm.LayoutViewModel{
		Title:       p.title,
		Theme:       string(h.portfolio.Theme.Current()),
		CSRFToken:   csrf,
		ActiveNav:   p.nav,
		CurrentPath: r.URL.RequestURI(),
		Refresh:     p.refresh,
	}, body)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.status != 0 {
		w.WriteHeader(p.status)
	}
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", p.title, "error", err)
		if p.status == 0 {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// Home renders the about page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	csrf := csrfToken(w, r)
	home := toHomeViewModel(h.portfolio.Profile)

	title := "Home"
	if home.Name != "" {
		title = home.Name
	}
	h.render(w, r, page{title: title, nav: vm.NavHome}, csrf, templates.Home(home))
}

// NotFound renders the 404 page for any unknown path.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	csrf := csrfToken(w, r)
	h.render(w, r, page{title: "Page not found", status: http.StatusNotFound}, csrf, templates.NotFound(r.URL.Path))
}

// Certifications renders the certification list, the add form and the
// viewer for the selected certification.
func (h *Handler) Certifications(w http.ResponseWriter, r *http.Request) {
	h.renderCertifications(w, r, vm.CertificationFormViewModel{Errors: map[string]string{}}, 0)
}

func (h *Handler) renderCertifications(w http.ResponseWriter, r *http.Request, form vm.CertificationFormViewModel, status int) {
	csrf := csrfToken(w, r)
	store := h.portfolio.Certifications

	selected := store.Selected()
	session := h.portfolio.Viewer.Snapshot()

	title := ""
	if selected != nil {
		title = selected.Title
	}

	body := vm.CertificationsViewModel{
		Certifications: toCertificationCards(store.List(), selected),
		Form:           form,
		Viewer:         toViewerViewModel(session, title),
	}

	p := page{
		title:   "Certifications",
		nav:     vm.NavCertifications,
		status:  status,
		refresh: session.Active && session.LoadState == model.LoadStateLoading,
	}
	h.render(w, r, p, csrf, templates.Certifications(body, csrf))
}

// AddCertification handles the add form. A rejected submission re-renders
// the page with the entered values and per-field messages.
func (h *Handler) AddCertification(w http.ResponseWriter, r *http.Request) {
	in := application.CertificationFormInput{
		Title:       r.PostFormValue("title"),
		Issuer:      r.PostFormValue("issuer"),
		IssueDate:   r.PostFormValue("issueDate"),
		DocumentURL: r.PostFormValue("documentUrl"),
		Description: r.PostFormValue("description"),
	}

	_, err := h.portfolio.Form.Submit(r.Context(), in)

	var verr *application.ValidationError
	if errors.As(err, &verr) {
		h.renderCertifications(w, r, toFormViewModel(in, verr), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.logger.Error("failed to add certification", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/certifications", http.StatusSeeOther)
}

// DeleteCertification removes a certification and returns to the list.
func (h *Handler) DeleteCertification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.portfolio.Certifications.Remove(r.Context(), id)

	var perr *application.PersistenceError
	if err != nil && !errors.As(err, &perr) {
		h.logger.Error("failed to remove certification", "id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/certifications", http.StatusSeeOther)
}

// SelectCertification selects a certification, which opens its document in
// the viewer in the background.
func (h *Handler) SelectCertification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.portfolio.Certifications.SelectByID(id); err != nil {
		if errors.Is(err, application.ErrCertificationNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger.Error("failed to select certification", "id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/certifications#viewer", http.StatusSeeOther)
}

// DeselectCertification clears the selection and closes the viewer.
func (h *Handler) DeselectCertification(w http.ResponseWriter, r *http.Request) {
	h.portfolio.Certifications.Select(nil)
	http.Redirect(w, r, "/certifications", http.StatusSeeOther)
}

// ViewerNext advances the viewer one page.
func (h *Handler) ViewerNext(w http.ResponseWriter, r *http.Request) {
	h.turnPage(w, r, h.portfolio.Viewer.NextPage)
}

// ViewerPrevious moves the viewer back one page.
func (h *Handler) ViewerPrevious(w http.ResponseWriter, r *http.Request) {
	h.turnPage(w, r, h.portfolio.Viewer.PreviousPage)
}

func (h *Handler) turnPage(w http.ResponseWriter, r *http.Request, turn func() (model.ViewerSession, error)) {
	// A stale pager form (document closed or still loading) just reloads.
	if _, err := turn(); err != nil && !errors.Is(err, application.ErrViewerNotReady) {
		h.logger.Error("failed to turn page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/certifications#viewer", http.StatusSeeOther)
}

// ToggleTheme flips the theme and returns to the page the toggle was
// submitted from.
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.portfolio.Theme.Toggle(r.Context())
	http.Redirect(w, r, safeReturnPath(r.PostFormValue("return")), http.StatusSeeOther)
}

// safeReturnPath accepts only local absolute paths, falling back to "/".
func safeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

// Projects loads the account's repositories and renders them filtered by
// the q and tag query parameters.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	csrf := csrfToken(w, r)
	browser := h.portfolio.Projects

	_, err := browser.Load(r.Context())
	if err != nil && !errors.Is(err, application.ErrSuperseded) {
		h.logger.Warn("failed to load repositories", "account", browser.Account(), "error", err)
	}

	query := r.URL.Query()
	tags := application.NewTagSelection(query["tag"]...)
	body := toProjectsViewModel(browser.Snapshot(), browser.Account(), query.Get("q"), tags)

	h.render(w, r, page{title: "Projects", nav: vm.NavProjects}, csrf, templates.Projects(body))
}
