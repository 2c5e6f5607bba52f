// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

// ErrSlotNotFound indicates no slot with the requested name has been written yet.
var ErrSlotNotFound = errors.New("slot not found")

// SlotStore defines the driven port for named-slot durable storage.
// Each slot is read whole and overwritten whole; there is no partial update.
type SlotStore interface {
	// Load returns the slot with the given name, or ErrSlotNotFound.
	Load(ctx context.Context, name string) (model.Slot, error)
	// Save creates or fully replaces the slot.
	Save(ctx context.Context, slot model.Slot) error
}
