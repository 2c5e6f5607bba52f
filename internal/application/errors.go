package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors returned by the portfolio services.
var (
	// ErrInvalidCertification indicates a record reached the store without
	// satisfying the at-rest invariants. Validation belongs to the form, so
	// this is a caller bug rather than a user error.
	ErrInvalidCertification = errors.New("invalid certification")

	// ErrCertificationNotFound indicates the requested certification does not exist.
	ErrCertificationNotFound = errors.New("certification not found")

	// ErrViewerNotReady indicates page navigation was attempted while the
	// viewer is not in the ready state.
	ErrViewerNotReady = errors.New("viewer is not ready")

	// ErrSuperseded indicates an asynchronous load finished after a newer
	// load replaced it; its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// FieldError describes why a single form field was rejected.
type FieldError struct {
	Field   string // Form field name, e.g. "documentUrl".
	Reason  string // Machine-readable reason: "required", "invalid_url", "invalid_date".
	Message string // Human-readable message shown next to the field.
}

// ValidationError carries every failing field of a form submission.
// It never leaves the form boundary as anything but a rejected submission.
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name].Reason)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Messages returns the field -> message map used for rendering.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for name, fe := range e.Fields {
		out[name] = fe.Message
	}
	return out
}

// PersistenceError reports a failed read or write of durable storage. The
// in-memory state remains authoritative for the session.
type PersistenceError struct {
	Slot string
	Op   string // "load" or "save".
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s of slot %q: %v", e.Op, e.Slot, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ResolutionError reports that a document's metadata could not be resolved.
// It is terminal for that load attempt.
type ResolutionError struct {
	SourceURL string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve document %s: %v", e.SourceURL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// FetchError reports that the repository list could not be loaded.
type FetchError struct {
	Account string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch repositories for %s: %v", e.Account, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TagFetchError reports a failed topic request for one repository. It is
// logged and absorbed; the repository keeps an empty topic set.
type TagFetchError struct {
	Repository string
	Err        error
}

func (e *TagFetchError) Error() string {
	return fmt.Sprintf("fetch topics for %s: %v", e.Repository, e.Err)
}

func (e *TagFetchError) Unwrap() error { return e.Err }
