// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// Navigation sections highlighted in the header.
const (
	NavHome           = "home"
	NavCertifications = "certifications"
	NavProjects       = "projects"
)

// LayoutViewModel holds the data shared by every page shell.
type LayoutViewModel struct {
	Title       string
	Theme       string // "light" or "dark".
	CSRFToken   string
	ActiveNav   string
	CurrentPath string // Path the theme toggle returns to.
	Refresh     bool   // Reload the page shortly, while a document is loading.
}

// ProfileLinkViewModel holds a contact link on the home page.
type ProfileLinkViewModel struct {
	Label string
	URL   string
}

// HomeViewModel holds all data needed to render the home page.
type HomeViewModel struct {
	Name     string
	Headline string
	Location string
	Email    string
	BioHTML  string // Sanitized HTML rendered from markdown.
	Links    []ProfileLinkViewModel
	Skills   []string
}

// CertificationCardViewModel holds presentation-ready data for one certification.
type CertificationCardViewModel struct {
	ID              string
	Title           string
	Issuer          string
	IssueDate       string // Long form, e.g. "May 15, 2022".
	IssueDateISO    string
	DocumentURL     string
	DescriptionHTML string
	Selected        bool
	SelectPath      string
	DeletePath      string
}

// CertificationFormViewModel holds the add form's values and per-field errors.
type CertificationFormViewModel struct {
	Title       string
	Issuer      string
	IssueDate   string
	DocumentURL string
	Description string
	Errors      map[string]string // Field name -> message.
	Open        bool
}

// Error returns the message for field, or "".
func (f CertificationFormViewModel) Error(field string) string {
	return f.Errors[field]
}

// ViewerViewModel holds presentation-ready data for the document viewer.
type ViewerViewModel struct {
	Active      bool
	Title       string
	SourceURL   string
	State       string // "loading", "ready" or "failed".
	PageCount   int
	CurrentPage int
	HasPrevious bool
	HasNext     bool
	FrameURL    string // SourceURL with a #page= fragment.
	Error       string
}

// CertificationsViewModel holds all data needed to render the certifications page.
type CertificationsViewModel struct {
	Certifications []CertificationCardViewModel
	Form           CertificationFormViewModel
	Viewer         ViewerViewModel
}

// TopicViewModel is a topic badge on a repository card.
type TopicViewModel struct {
	Name     string
	Selected bool
}

// RepositoryCardViewModel holds presentation-ready data for one repository.
type RepositoryCardViewModel struct {
	Name        string
	Description string
	URL         string
	Homepage    string
	Stars       int
	Forks       int
	UpdatedAt   string
	Topics      []TopicViewModel
}

// TagChipViewModel is a filter chip; Href toggles the tag.
type TagChipViewModel struct {
	Name     string
	Selected bool
	Href     string
}

// ProjectsViewModel holds all data needed to render the projects page.
type ProjectsViewModel struct {
	State        string
	Account      string
	Query        string
	SelectedTags []string
	Tags         []TagChipViewModel
	Repositories []RepositoryCardViewModel
	Total        int
	Error        string
	ClearHref    string
	Filtered     bool
}
