package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
// State-changing routes require a valid CSRF token.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /certifications", h.Certifications)
	mux.HandleFunc("GET /projects", h.Projects)

	// Form posts.
	mux.HandleFunc("POST /certifications", requireCSRF(h.AddCertification))
	mux.HandleFunc("POST /certifications/deselect", requireCSRF(h.DeselectCertification))
	mux.HandleFunc("POST /certifications/{id}/select", requireCSRF(h.SelectCertification))
	mux.HandleFunc("POST /certifications/{id}/delete", requireCSRF(h.DeleteCertification))
	mux.HandleFunc("POST /viewer/next", requireCSRF(h.ViewerNext))
	mux.HandleFunc("POST /viewer/previous", requireCSRF(h.ViewerPrevious))
	mux.HandleFunc("POST /theme/toggle", requireCSRF(h.ToggleTheme))

	// Everything else.
	mux.HandleFunc("/", h.NotFound)
}
