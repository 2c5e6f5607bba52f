// Package pdf implements the DocumentResolver port for remote PDF documents.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DocumentResolver = (*Resolver)(nil)

// DefaultMaxBytes caps the size of a document the resolver downloads.
const DefaultMaxBytes = 32 << 20

var pdfMagic = []byte("%PDF-")

// ErrNotPDF is returned when the downloaded body does not start with a PDF header.
var ErrNotPDF = errors.New("document is not a PDF")

// ErrTooLarge is returned when the document exceeds the configured size cap.
var ErrTooLarge = errors.New("document exceeds size limit")

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// Resolver downloads a PDF over HTTP GET and counts its pages.
type Resolver struct {
	httpClient *http.Client
	maxBytes   int64
	countPages func(rs io.ReadSeeker) (int, error)
	logger     *slog.Logger
}

// NewResolver creates a Resolver. A nil httpClient uses http.DefaultClient;
// maxBytes <= 0 uses DefaultMaxBytes. Timeouts come from the caller's context.
func NewResolver(httpClient *http.Client, maxBytes int64, logger *slog.Logger) *Resolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Resolver{
		httpClient: httpClient,
		maxBytes:   maxBytes,
		countPages: pdfcpuPageCount,
		logger:     logger,
	}
}

// PageCount fetches sourceURL and returns the number of pages in the document.
func (r *Resolver) PageCount(ctx context.Context, sourceURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", sourceURL, err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("fetch %s: unexpected status %d", sourceURL, resp.StatusCode)
	}

	// Read one byte past the cap so an oversized body is detectable.
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", sourceURL, err)
	}
	if int64(len(body)) > r.maxBytes {
		return 0, fmt.Errorf("read %s: %w (%d bytes)", sourceURL, ErrTooLarge, r.maxBytes)
	}
	if !bytes.HasPrefix(body, pdfMagic) {
		return 0, fmt.Errorf("parse %s: %w", sourceURL, ErrNotPDF)
	}

	pages, err := r.countPages(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", sourceURL, err)
	}
	if pages < 1 {
		return 0, fmt.Errorf("parse %s: document has no pages", sourceURL)
	}

	r.logger.Debug("document resolved", "url", sourceURL, "bytes", len(body), "pages", pages)

	return pages, nil
}

// pdfcpuPageCount reads the page count using relaxed validation, which
// tolerates the minor structural defects common in generated certificates.
func pdfcpuPageCount(rs io.ReadSeeker) (int, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return api.PageCount(rs, conf)
}
