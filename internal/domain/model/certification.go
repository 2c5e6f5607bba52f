package model

import "time"

// IssueDateLayout is the calendar-date layout used for certification issue
// dates in forms, persisted slots and seed content.
const IssueDateLayout = "2006-01-02"

// Certification represents a single certification entry shown on the
// certifications page.
type Certification struct {
	ID          string
	Title       string
	Issuer      string
	IssueDate   time.Time // UTC midnight; only the calendar date is meaningful.
	DocumentURL string
	Description string // Optional; rendered as markdown.
}

// CertificationInput holds the validated fields of a new certification.
// The store assigns the ID.
type CertificationInput struct {
	Title       string
	Issuer      string
	IssueDate   time.Time
	DocumentURL string
	Description string
}

// FormattedIssueDate returns the issue date in IssueDateLayout.
func (c Certification) FormattedIssueDate() string {
	return c.IssueDate.Format(IssueDateLayout)
}
