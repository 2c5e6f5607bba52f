package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// DefaultDocumentTimeout bounds a single document resolution.
const DefaultDocumentTimeout = 20 * time.Second

// Viewer tracks the load and pagination state of the one mounted document.
//
// States: loading -> ready | failed. Every Open of a new source starts a new
// generation; a resolution that finishes after its generation was replaced is
// discarded, so a stale document can never overwrite a newer one.
type Viewer struct {
	resolver driven.DocumentResolver
	timeout  time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc // Cancels the in-flight resolution, if any.
	session    model.ViewerSession

	observers observers[model.ViewerSession]
}

// NewViewer creates a Viewer with no mounted document. timeout <= 0 uses
// DefaultDocumentTimeout.
func NewViewer(resolver driven.DocumentResolver, timeout time.Duration, logger *slog.Logger) *Viewer {
	if timeout <= 0 {
		timeout = DefaultDocumentTimeout
	}
	return &Viewer{resolver: resolver, timeout: timeout, logger: logger}
}

// Open mounts sourceURL and resolves its page count, blocking until the
// resolution settles. Re-opening the current source is a no-op unless the
// previous attempt failed, which retries it.
//
// Returns the settled session, a *ResolutionError for a failed load, or
// ErrSuperseded when a later Open or Close replaced this one before it finished.
func (v *Viewer) Open(ctx context.Context, sourceURL string) (model.ViewerSession, error) {
	pending, snap := v.begin(ctx, sourceURL)
	if pending == nil {
		return snap, nil
	}
	return pending.resolve()
}

// pendingLoad is a resolution that begin has claimed a generation for.
type pendingLoad struct {
	viewer    *Viewer
	ctx       context.Context
	cancel    context.CancelFunc
	gen       uint64
	sourceURL string
}

// begin mounts sourceURL in the loading state and claims a new generation,
// superseding any earlier load. Generations are ordered by begin calls, so a
// caller that must honour request order calls begin synchronously and only
// defers resolve. A nil pendingLoad means sourceURL is already mounted and
// not failed; the current session is returned instead.
func (v *Viewer) begin(ctx context.Context, sourceURL string) (*pendingLoad, model.ViewerSession) {
	v.mu.Lock()
	if v.session.Active && v.session.SourceURL == sourceURL && v.session.LoadState != model.LoadStateFailed {
		snap := v.session
		v.mu.Unlock()
		return nil, snap
	}

	gen := v.supersedeLocked()
	resolveCtx, cancel := context.WithTimeout(ctx, v.timeout)
	v.cancel = cancel
	v.session = model.ViewerSession{
		Active:    true,
		SourceURL: sourceURL,
		LoadState: model.LoadStateLoading,
	}
	loading := v.session
	v.mu.Unlock()

	v.observers.notify(loading)

	return &pendingLoad{viewer: v, ctx: resolveCtx, cancel: cancel, gen: gen, sourceURL: sourceURL}, loading
}

// resolve fetches the page count and commits ready or failed, unless the
// load was superseded in the meantime.
func (l *pendingLoad) resolve() (model.ViewerSession, error) {
	v := l.viewer

	pages, err := v.resolver.PageCount(l.ctx, l.sourceURL)
	l.cancel()
	if err == nil && pages < 1 {
		err = fmt.Errorf("document reports %d pages", pages)
	}

	v.mu.Lock()
	if l.gen != v.generation {
		v.mu.Unlock()
		v.logger.Debug("discarding stale document resolution", "url", l.sourceURL, "generation", l.gen)
		return model.ViewerSession{}, ErrSuperseded
	}
	v.cancel = nil

	var resErr *ResolutionError
	if err != nil {
		resErr = &ResolutionError{SourceURL: l.sourceURL, Err: err}
		v.session.LoadState = model.LoadStateFailed
		v.session.Err = resErr.Error()
	} else {
		v.session.LoadState = model.LoadStateReady
		v.session.PageCount = pages
		v.session.CurrentPage = 1
	}
	settled := v.session
	v.mu.Unlock()

	v.observers.notify(settled)

	if resErr != nil {
		v.logger.Warn("document failed to load", "url", l.sourceURL, "error", resErr)
		return settled, resErr
	}
	v.logger.Debug("document ready", "url", l.sourceURL, "pages", pages)
	return settled, nil
}

// NextPage advances one page, stopping at the last page.
func (v *Viewer) NextPage() (model.ViewerSession, error) {
	return v.turn(1)
}

// PreviousPage goes back one page, stopping at the first page.
func (v *Viewer) PreviousPage() (model.ViewerSession, error) {
	return v.turn(-1)
}

func (v *Viewer) turn(offset int) (model.ViewerSession, error) {
	v.mu.Lock()
	if !v.session.Active || v.session.LoadState != model.LoadStateReady {
		snap := v.session
		v.mu.Unlock()
		return snap, ErrViewerNotReady
	}

	page := min(max(v.session.CurrentPage+offset, 1), v.session.PageCount)
	changed := page != v.session.CurrentPage
	v.session.CurrentPage = page
	snap := v.session
	v.mu.Unlock()

	if changed {
		v.observers.notify(snap)
	}
	return snap, nil
}

// Close unmounts the current document. Any in-flight resolution is
// cancelled and its result discarded.
func (v *Viewer) Close() {
	v.mu.Lock()
	if !v.session.Active {
		v.mu.Unlock()
		return
	}
	v.supersedeLocked()
	v.session = model.ViewerSession{}
	snap := v.session
	v.mu.Unlock()

	v.observers.notify(snap)
}

// Snapshot returns the current session state.
func (v *Viewer) Snapshot() model.ViewerSession {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session
}

// Subscribe registers fn to be called with every new session state and
// returns a function that unregisters it.
func (v *Viewer) Subscribe(fn func(model.ViewerSession)) func() {
	return v.observers.subscribe(fn)
}

// supersedeLocked starts a new generation and cancels the previous one's
// resolution. It returns the new generation.
func (v *Viewer) supersedeLocked() uint64 {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.generation++
	return v.generation
}
