package httphandler

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/ericfisherdev/folio/internal/application"
	"github.com/ericfisherdev/folio/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// CertificationResponse is the JSON representation of a certification.
type CertificationResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	IssueDate   string `json:"issue_date"`
	DocumentURL string `json:"document_url"`
	Description string `json:"description"`
}

// CertificationListResponse is the collection plus the selected id, if any.
type CertificationListResponse struct {
	Certifications []CertificationResponse `json:"certifications"`
	SelectedID     string                  `json:"selected_id,omitempty"`
}

// CertificationRequest is the JSON body for the add certification endpoint.
type CertificationRequest struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	IssueDate   string `json:"issue_date"`
	DocumentURL string `json:"document_url"`
	Description string `json:"description"`
}

// FieldErrorResponse describes one rejected form field.
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ValidationResponse is returned with 422 when a submission is rejected.
type ValidationResponse struct {
	Error  string               `json:"error"`
	Fields []FieldErrorResponse `json:"fields"`
}

// ViewerResponse is the JSON representation of the document viewer state.
type ViewerResponse struct {
	Active      bool   `json:"active"`
	SourceURL   string `json:"source_url,omitempty"`
	State       string `json:"state,omitempty"`
	PageCount   int    `json:"page_count"`
	CurrentPage int    `json:"current_page"`
	HasPrevious bool   `json:"has_previous"`
	HasNext     bool   `json:"has_next"`
	Error       string `json:"error,omitempty"`
}

// OpenDocumentRequest is the JSON body for the open document endpoint.
type OpenDocumentRequest struct {
	URL string `json:"url"`
}

// RepositoryResponse is the JSON representation of a public repository.
type RepositoryResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Homepage    string   `json:"homepage,omitempty"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	UpdatedAt   string   `json:"updated_at"`
	Topics      []string `json:"topics"`
}

// ProjectsResponse is the filtered repository listing.
type ProjectsResponse struct {
	State        string               `json:"state"`
	Account      string               `json:"account"`
	Total        int                  `json:"total"`
	Repositories []RepositoryResponse `json:"repositories"`
	Topics       []string             `json:"topics"`
	Error        string               `json:"error,omitempty"`
}

// ThemeRequest is the JSON body for the set theme endpoint.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse is the JSON representation of the active theme.
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// ProfileLinkResponse is one contact link on the profile.
type ProfileLinkResponse struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ProfileResponse is the JSON representation of the home page content.
type ProfileResponse struct {
	Name     string                `json:"name"`
	Headline string                `json:"headline"`
	Location string                `json:"location,omitempty"`
	Email    string                `json:"email,omitempty"`
	Bio      string                `json:"bio"`
	Links    []ProfileLinkResponse `json:"links"`
	Skills   []string              `json:"skills"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Time    string `json:"time"`
}

// toCertificationResponse converts a domain Certification to its JSON representation.
func toCertificationResponse(c model.Certification) CertificationResponse {
	return CertificationResponse{
		ID:          c.ID,
		Title:       c.Title,
		Issuer:      c.Issuer,
		IssueDate:   c.FormattedIssueDate(),
		DocumentURL: c.DocumentURL,
		Description: c.Description,
	}
}

// toValidationResponse lists the rejected fields in a stable order.
func toValidationResponse(verr *application.ValidationError) ValidationResponse {
	fields := make([]FieldErrorResponse, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields = append(fields, FieldErrorResponse{Field: fe.Field, Reason: fe.Reason, Message: fe.Message})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return ValidationResponse{Error: "validation failed", Fields: fields}
}

// toViewerResponse converts a viewer snapshot to its JSON representation.
func toViewerResponse(s model.ViewerSession) ViewerResponse {
	return ViewerResponse{
		Active:      s.Active,
		SourceURL:   s.SourceURL,
		State:       string(s.LoadState),
		PageCount:   s.PageCount,
		CurrentPage: s.CurrentPage,
		HasPrevious: s.HasPrevious(),
		HasNext:     s.HasNext(),
		Error:       s.Err,
	}
}

// toRepositoryResponse converts a domain RepositorySummary to its JSON representation.
func toRepositoryResponse(r model.RepositorySummary) RepositoryResponse {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	resp := RepositoryResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		URL:         r.HTMLURL,
		Homepage:    r.Homepage,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Topics:      topics,
	}
	if !r.UpdatedAt.IsZero() {
		resp.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// toProfileResponse converts the domain Profile to its JSON representation.
func toProfileResponse(p model.Profile) ProfileResponse {
	links := make([]ProfileLinkResponse, 0, len(p.Links))
	for _, l := range p.Links {
		links = append(links, ProfileLinkResponse{Label: l.Label, URL: l.URL})
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	return ProfileResponse{
		Name:     p.Name,
		Headline: p.Headline,
		Location: p.Location,
		Email:    p.Email,
		Bio:      p.Bio,
		Links:    links,
		Skills:   skills,
	}
}
