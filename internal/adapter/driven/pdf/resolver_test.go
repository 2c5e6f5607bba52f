package pdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func fixedPages(n int) func(io.ReadSeeker) (int, error) {
	return func(io.ReadSeeker) (int, error) { return n, nil }
}

func TestPageCount_Success(t *testing.T) {
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7\n...body..."))
	})

	r := NewResolver(server.Client(), 0, slog.Default()).withPageCounter(fixedPages(3))
	pages, err := r.PageCount(context.Background(), server.URL+"/cert.pdf")

	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestPageCount_HTTPError(t *testing.T) {
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r := NewResolver(server.Client(), 0, slog.Default()).withPageCounter(fixedPages(1))
	_, err := r.PageCount(context.Background(), server.URL+"/missing.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestPageCount_NotPDF(t *testing.T) {
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>login required</html>"))
	})

	r := NewResolver(server.Client(), 0, slog.Default()).withPageCounter(fixedPages(1))
	_, err := r.PageCount(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestPageCount_TooLarge(t *testing.T) {
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-" + strings.Repeat("x", 64)))
	})

	r := NewResolver(server.Client(), 16, slog.Default()).withPageCounter(fixedPages(1))
	_, err := r.PageCount(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPageCount_ParserError(t *testing.T) {
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 broken"))
	})

	parseErr := errors.New("xref table corrupt")
	r := NewResolver(server.Client(), 0, slog.Default()).withPageCounter(func(io.ReadSeeker) (int, error) {
		return 0, parseErr
	})
	_, err := r.PageCount(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, parseErr)
}

func TestPageCount_ZeroPages(t *testing.T) {
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	r := NewResolver(server.Client(), 0, slog.Default()).withPageCounter(fixedPages(0))
	_, err := r.PageCount(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pages")
}

func TestPageCount_GarbageAfterHeaderFailsRealParser(t *testing.T) {
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4\nthis is not a real document\n"))
	})

	r := NewResolver(server.Client(), 0, slog.Default())
	_, err := r.PageCount(context.Background(), server.URL)

	assert.Error(t, err)
}

func TestPageCount_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	server := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := NewResolver(server.Client(), 0, slog.Default()).withPageCounter(fixedPages(1))
	_, err := r.PageCount(ctx, server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPageCount_InvalidURL(t *testing.T) {
	r := NewResolver(nil, 0, slog.Default())
	_, err := r.PageCount(context.Background(), "://nope")
	assert.Error(t, err)
}

// withPageCounter swaps the PDF parser so tests can exercise the HTTP path
// without embedding real documents.
func (r *Resolver) withPageCounter(fn func(io.ReadSeeker) (int, error)) *Resolver {
	r.countPages = fn
	return r
}
