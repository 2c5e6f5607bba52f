// Package templates holds the templ components that render every HTML page.
// Edit the .templ sources and run `go tool templ generate`; the _templ.go
// files are generated.
package templates

import (
	"strings"

	vm "github.com/ericfisherdev/folio/internal/adapter/driving/web/viewmodel"
)

// Form field names; they match the names the handler parses.
const (
	fieldTitle       = "title"
	fieldIssuer      = "issuer"
	fieldIssueDate   = "issueDate"
	fieldDocumentURL = "documentUrl"
	fieldDescription = "description"
)

type navItem struct {
	key   string
	label string
	path  string
}

var navItems = []navItem{
	{key: vm.NavHome, label: "Home", path: "/"},
	{key: vm.NavCertifications, label: "Certifications", path: "/certifications"},
	{key: vm.NavProjects, label: "Projects", path: "/projects"},
}

// themeName normalizes a theme to "light" or "dark".
func themeName(theme string) string {
	if theme == "dark" {
		return "dark"
	}
	return "light"
}

func toggleLabel(theme string) string {
	if themeName(theme) == "dark" {
		return "Light mode"
	}
	return "Dark mode"
}

func toggleAriaLabel(theme string) string {
	if themeName(theme) == "dark" {
		return "Switch to light theme"
	}
	return "Switch to dark theme"
}

// classes joins the non-empty class names.
func classes(names ...string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

func selectedClass(selected bool) string {
	if selected {
		return "selected"
	}
	return ""
}

func errorClass(hasError bool) string {
	if hasError {
		return "has-error"
	}
	return ""
}

func errorID(field string) string {
	return field + "-error"
}

func viewerTitle(v vm.ViewerViewModel) string {
	if v.Title != "" {
		return v.Title
	}
	return "Document"
}
