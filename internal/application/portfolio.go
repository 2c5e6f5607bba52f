// Package application contains the portfolio's use-case services.
package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// PortfolioDeps holds everything NewPortfolio needs to assemble the services.
type PortfolioDeps struct {
	Slots           driven.SlotStore
	GitHub          driven.GitHubClient
	Resolver        driven.DocumentResolver
	Account         string
	Seed            []model.Certification
	Profile         model.Profile
	DefaultTheme    model.Theme
	FetchTimeout    time.Duration
	DocumentTimeout time.Duration
	Logger          *slog.Logger
}

// Portfolio owns the services of one portfolio session and the wiring between
// them. Selecting a certification opens its document in the viewer; clearing
// the selection closes it.
type Portfolio struct {
	Theme          *ThemeState
	Certifications *CertificationStore
	Form           *CertificationForm
	Viewer         *Viewer
	Projects       *ProjectsBrowser
	Profile        model.Profile

	logger      *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe func()

	selMu  sync.Mutex // Serializes selection -> viewer updates.
	closed bool
}

// NewPortfolio rehydrates persisted state and connects the services. ctx
// bounds only the initial storage reads; call Close to stop background work.
func NewPortfolio(ctx context.Context, deps PortfolioDeps) *Portfolio {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := NewCertificationStore(ctx, deps.Slots, deps.Seed, logger.With("component", "certifications"))

	p := &Portfolio{
		Theme:          NewThemeState(ctx, deps.Slots, deps.DefaultTheme, logger.With("component", "theme")),
		Certifications: store,
		Form:           NewCertificationForm(store, logger.With("component", "form")),
		Viewer:         NewViewer(deps.Resolver, deps.DocumentTimeout, logger.With("component", "viewer")),
		Projects:       NewProjectsBrowser(deps.GitHub, deps.Account, deps.FetchTimeout, logger.With("component", "projects")),
		Profile:        deps.Profile,
		logger:         logger,
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.unsubscribe = store.Subscribe(p.onStoreEvent)

	return p
}

// onStoreEvent keeps the viewer on the store's current selection. It reads
// the selection under selMu rather than trusting the event, so the last
// handler to run always mounts the latest selection even when notifications
// from concurrent changes arrive out of order. The viewer generation is
// claimed here, on the notifying goroutine; only the resolution runs in the
// background.
func (p *Portfolio) onStoreEvent(e StoreEvent) {
	if e.Kind != EventSelected {
		return
	}

	p.selMu.Lock()
	defer p.selMu.Unlock()

	if p.closed {
		return
	}

	selected := p.Certifications.Selected()
	if selected == nil {
		p.Viewer.Close()
		return
	}

	pending, _ := p.Viewer.begin(p.ctx, selected.DocumentURL)
	if pending == nil {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if _, err := pending.resolve(); err != nil && !errors.Is(err, ErrSuperseded) {
			p.logger.Debug("selected document did not load", "url", pending.sourceURL, "error", err)
		}
	}()
}

// OpenDocument mounts sourceURL in the viewer and blocks until it settles.
// The resolution is bound to the portfolio's lifetime rather than the
// caller's, so an abandoned request cannot leave the shared viewer failed.
// ctx only bounds how long the caller waits; when it ends first, the current
// (still loading) session is returned with ctx's error.
func (p *Portfolio) OpenDocument(ctx context.Context, sourceURL string) (model.ViewerSession, error) {
	type result struct {
		session model.ViewerSession
		err     error
	}

	done := make(chan result, 1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		session, err := p.Viewer.Open(p.ctx, sourceURL)
		done <- result{session: session, err: err}
	}()

	select {
	case r := <-done:
		return r.session, r.err
	case <-ctx.Done():
		return p.Viewer.Snapshot(), ctx.Err()
	}
}

// Close stops the selection wiring, cancels in-flight document loads and
// waits for them to finish.
func (p *Portfolio) Close() {
	p.unsubscribe()

	p.selMu.Lock()
	p.closed = true
	p.selMu.Unlock()

	p.cancel()
	p.wg.Wait()
}
