package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// Field names used in form submissions, validation errors and the persisted record.
const (
	FieldTitle       = "title"
	FieldIssuer      = "issuer"
	FieldIssueDate   = "issueDate"
	FieldDocumentURL = "documentUrl"
	FieldDescription = "description"
)

// Validation failure reasons.
const (
	ReasonRequired    = "required"
	ReasonInvalidURL  = "invalid_url"
	ReasonInvalidDate = "invalid_date"
)

// CertificationFormInput is the raw, unvalidated form submission.
type CertificationFormInput struct {
	Title       string `form:"title" validate:"notblank"`
	Issuer      string `form:"issuer" validate:"notblank"`
	IssueDate   string `form:"issueDate" validate:"notblank,issuedate"`
	DocumentURL string `form:"documentUrl" validate:"notblank,absurl"`
	Description string `form:"description"`
}

var fieldMessages = map[string]map[string]string{
	FieldTitle: {
		ReasonRequired: "Title is required",
	},
	FieldIssuer: {
		ReasonRequired: "Issuing organization is required",
	},
	FieldIssueDate: {
		ReasonRequired:    "Issue date is required",
		ReasonInvalidDate: "Issue date must be a date in YYYY-MM-DD format",
	},
	FieldDocumentURL: {
		ReasonRequired:   "PDF URL is required",
		ReasonInvalidURL: "Please enter a valid URL",
	},
}

var tagReasons = map[string]string{
	"notblank":  ReasonRequired,
	"absurl":    ReasonInvalidURL,
	"issuedate": ReasonInvalidDate,
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator used by the form.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("form"); name != "" {
				return name
			}
			return fld.Name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		_ = v.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
			return isAbsoluteURL(fl.Field().String())
		})

		_ = v.RegisterValidation("issuedate", func(fl validator.FieldLevel) bool {
			_, err := parseIssueDate(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})
	return validateInst
}

// ValidateCertification checks every field of in independently and returns
// all failures together, or nil when the input is valid. Description is never
// validated.
func ValidateCertification(in CertificationFormInput) *ValidationError {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		// Only reachable on programmer error (e.g. a non-struct argument).
		panic(fmt.Sprintf("certification form: unexpected validator error: %v", err))
	}

	verr := &ValidationError{Fields: make(map[string]FieldError, len(ves))}
	for _, fe := range ves {
		field := fe.Field()
		reason, ok := tagReasons[fe.Tag()]
		if !ok {
			reason = fe.Tag()
		}
		msg := fieldMessages[field][reason]
		if msg == "" {
			msg = field + " is invalid"
		}
		verr.Fields[field] = FieldError{Field: field, Reason: reason, Message: msg}
	}
	return verr
}

// certificationAdder is the part of the store the form depends on.
type certificationAdder interface {
	Add(ctx context.Context, in model.CertificationInput) (model.Certification, error)
}

// CertificationForm turns raw submissions into store additions.
type CertificationForm struct {
	store  certificationAdder
	logger *slog.Logger
}

// NewCertificationForm creates a form that submits to store.
func NewCertificationForm(store certificationAdder, logger *slog.Logger) *CertificationForm {
	return &CertificationForm{store: store, logger: logger}
}

// Submit validates in and, when every field passes, adds the certification
// to the store. A *ValidationError means nothing was added. Persistence
// failures are logged and absorbed: the record exists for this session.
func (f *CertificationForm) Submit(ctx context.Context, in CertificationFormInput) (model.Certification, error) {
	if verr := ValidateCertification(in); verr != nil {
		return model.Certification{}, verr
	}

	// Validation guarantees the date parses.
	issued, _ := parseIssueDate(in.IssueDate)

	cert, err := f.store.Add(ctx, model.CertificationInput{
		Title:       strings.TrimSpace(in.Title),
		Issuer:      strings.TrimSpace(in.Issuer),
		IssueDate:   issued,
		DocumentURL: strings.TrimSpace(in.DocumentURL),
		Description: strings.TrimSpace(in.Description),
	})

	var perr *PersistenceError
	if errors.As(err, &perr) {
		f.logger.Warn("certification added but not persisted", "id", cert.ID, "error", perr)
		return cert, nil
	}
	if err != nil {
		return model.Certification{}, err
	}

	f.logger.Info("certification added", "id", cert.ID, "title", cert.Title)
	return cert, nil
}
