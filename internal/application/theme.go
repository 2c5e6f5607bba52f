package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// ThemeSlot is the durable storage slot holding the theme preference.
const ThemeSlot = "theme"

// ThemeState holds the light/dark preference. The in-memory value is
// authoritative; persistence failures are logged and otherwise ignored.
type ThemeState struct {
	mu        sync.RWMutex
	slots     driven.SlotStore
	theme     model.Theme
	logger    *slog.Logger
	observers observers[model.Theme]
}

// NewThemeState restores the persisted theme, falling back to fallback when
// nothing usable is stored. An invalid fallback is treated as light.
func NewThemeState(ctx context.Context, slots driven.SlotStore, fallback model.Theme, logger *slog.Logger) *ThemeState {
	if !fallback.Valid() {
		fallback = model.ThemeLight
	}
	t := &ThemeState{slots: slots, theme: fallback, logger: logger}

	slot, err := slots.Load(ctx, ThemeSlot)
	switch {
	case errors.Is(err, driven.ErrSlotNotFound):
		return t
	case err != nil:
		perr := &PersistenceError{Slot: ThemeSlot, Op: "load", Err: err}
		logger.Error("failed to load theme, using default", "theme", fallback, "error", perr)
		return t
	}

	var stored model.Theme
	if err := json.Unmarshal(slot.Payload, &stored); err != nil || !stored.Valid() {
		logger.Warn("persisted theme unreadable, using default", "theme", fallback, "payload", string(slot.Payload))
		return t
	}
	t.theme = stored
	return t
}

// Current returns the active theme.
func (t *ThemeState) Current() model.Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.theme
}

// Set changes the theme and persists it. Setting the current theme again
// is a no-op.
func (t *ThemeState) Set(ctx context.Context, theme model.Theme) (model.Theme, error) {
	if !theme.Valid() {
		return t.Current(), fmt.Errorf("unknown theme %q", theme)
	}

	t.mu.Lock()
	if t.theme == theme {
		t.mu.Unlock()
		return theme, nil
	}
	t.theme = theme
	t.persistLocked(ctx)
	t.mu.Unlock()

	t.observers.notify(theme)
	return theme, nil
}

// Toggle switches between light and dark and returns the new theme.
func (t *ThemeState) Toggle(ctx context.Context) model.Theme {
	t.mu.Lock()
	t.theme = t.theme.Opposite()
	theme := t.theme
	t.persistLocked(ctx)
	t.mu.Unlock()

	t.observers.notify(theme)
	return theme
}

// Subscribe registers fn to be called with every theme change and returns a
// function that unregisters it.
func (t *ThemeState) Subscribe(fn func(model.Theme)) func() {
	return t.observers.subscribe(fn)
}

func (t *ThemeState) persistLocked(ctx context.Context) {
	payload, err := json.Marshal(t.theme)
	if err == nil {
		err = t.slots.Save(ctx, model.Slot{Name: ThemeSlot, Payload: payload})
	}
	if err != nil {
		perr := &PersistenceError{Slot: ThemeSlot, Op: "save", Err: err}
		t.logger.Error("failed to persist theme", "theme", t.theme, "error", perr)
	}
}
