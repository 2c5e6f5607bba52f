package application

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// certificationRecord is the persisted JSON shape of a certification.
type certificationRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	IssueDate   string `json:"issueDate"`
	DocumentURL string `json:"documentUrl"`
	Description string `json:"description,omitempty"`
}

// encodeCertifications serializes the full collection, preserving order.
func encodeCertifications(certs []model.Certification) ([]byte, error) {
	records := make([]certificationRecord, 0, len(certs))
	for _, c := range certs {
		records = append(records, certificationRecord{
			ID:          c.ID,
			Title:       c.Title,
			Issuer:      c.Issuer,
			IssueDate:   c.FormattedIssueDate(),
			DocumentURL: c.DocumentURL,
			Description: c.Description,
		})
	}
	return json.Marshal(records)
}

// decodeCertifications parses a persisted collection. Any schema mismatch,
// invariant violation or duplicate id is an error; callers treat that the
// same as an absent slot.
func decodeCertifications(data []byte) ([]model.Certification, error) {
	var records []certificationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode certifications: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("decode certifications: not a JSON array")
	}

	certs := make([]model.Certification, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		issued, err := parseIssueDate(rec.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("decode certification %d: %w", i, err)
		}

		c := model.Certification{
			ID:          rec.ID,
			Title:       rec.Title,
			Issuer:      rec.Issuer,
			IssueDate:   issued,
			DocumentURL: rec.DocumentURL,
			Description: rec.Description,
		}
		if err := checkAtRest(c); err != nil {
			return nil, fmt.Errorf("decode certification %d: %w", i, err)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("decode certification %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}

		certs = append(certs, c)
	}

	return certs, nil
}

// checkAtRest verifies the invariants every stored certification satisfies.
func checkAtRest(c model.Certification) error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidCertification)
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: empty title", ErrInvalidCertification)
	case strings.TrimSpace(c.Issuer) == "":
		return fmt.Errorf("%w: empty issuer", ErrInvalidCertification)
	case c.IssueDate.IsZero():
		return fmt.Errorf("%w: missing issue date", ErrInvalidCertification)
	case !isAbsoluteURL(c.DocumentURL):
		return fmt.Errorf("%w: document url %q is not absolute", ErrInvalidCertification, c.DocumentURL)
	}
	return nil
}

// parseIssueDate parses a calendar date into UTC midnight.
func parseIssueDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.IssueDateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid issue date %q: %w", s, err)
	}
	return t, nil
}

// isAbsoluteURL reports whether s parses as a URL with both scheme and host.
func isAbsoluteURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
