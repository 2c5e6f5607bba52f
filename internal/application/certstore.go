package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// CertificationsSlot is the durable storage slot holding the serialized collection.
const CertificationsSlot = "certifications"

// StoreEventKind identifies what changed in the certification store.
type StoreEventKind string

const (
	EventAdded    StoreEventKind = "added"
	EventRemoved  StoreEventKind = "removed"
	EventSelected StoreEventKind = "selected"
)

// StoreEvent is delivered to store subscribers after every change.
// For EventSelected, Selected is nil when the selection was cleared.
type StoreEvent struct {
	Kind          StoreEventKind
	Certification model.Certification
	Selected      *model.Certification
}

// CertificationStore is the single source of truth for the certification
// collection and the certification currently selected for viewing. Every
// add and remove re-serializes the full collection to durable storage.
type CertificationStore struct {
	mu        sync.RWMutex
	slots     driven.SlotStore
	certs     []model.Certification
	selected  *model.Certification
	newID     func() (uuid.UUID, error)
	logger    *slog.Logger
	observers observers[StoreEvent]
}

// NewCertificationStore rehydrates the collection from durable storage. When
// the slot is absent, unreadable or fails to decode, the store starts from a
// copy of seed instead of failing.
func NewCertificationStore(ctx context.Context, slots driven.SlotStore, seed []model.Certification, logger *slog.Logger) *CertificationStore {
	s := &CertificationStore{
		slots:  slots,
		newID:  uuid.NewV7,
		logger: logger,
	}
	s.certs = s.rehydrate(ctx, seed)
	return s
}

func (s *CertificationStore) rehydrate(ctx context.Context, seed []model.Certification) []model.Certification {
	slot, err := s.slots.Load(ctx, CertificationsSlot)
	switch {
	case errors.Is(err, driven.ErrSlotNotFound):
		s.logger.Info("no persisted certifications, using seed", "count", len(seed))
		return slices.Clone(seed)
	case err != nil:
		perr := &PersistenceError{Slot: CertificationsSlot, Op: "load", Err: err}
		s.logger.Error("failed to load certifications, using seed", "error", perr)
		return slices.Clone(seed)
	}

	certs, err := decodeCertifications(slot.Payload)
	if err != nil {
		s.logger.Warn("persisted certifications unreadable, using seed", "error", err)
		return slices.Clone(seed)
	}

	s.logger.Info("certifications loaded", "count", len(certs), "updated_at", slot.UpdatedAt)
	return certs
}

// List returns the collection in display (insertion) order.
func (s *CertificationStore) List() []model.Certification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.certs)
}

// Get returns the certification with the given id.
func (s *CertificationStore) Get(id string) (model.Certification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Certification{}, false
	}
	return s.certs[idx], true
}

// Selected returns the certification currently selected for viewing, or nil.
func (s *CertificationStore) Selected() *model.Certification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return nil
	}
	c := *s.selected
	return &c
}

// Add appends a new certification with a fresh id and persists the collection.
// Input must already satisfy the at-rest invariants; otherwise an error
// wrapping ErrInvalidCertification is returned and nothing changes. A
// *PersistenceError means the record was added in memory but not saved.
func (s *CertificationStore) Add(ctx context.Context, in model.CertificationInput) (model.Certification, error) {
	s.mu.Lock()

	id, err := s.uniqueIDLocked()
	if err != nil {
		s.mu.Unlock()
		return model.Certification{}, fmt.Errorf("add certification: %w", err)
	}

	c := model.Certification{
		ID:          id,
		Title:       in.Title,
		Issuer:      in.Issuer,
		IssueDate:   in.IssueDate,
		DocumentURL: in.DocumentURL,
		Description: in.Description,
	}
	if err := checkAtRest(c); err != nil {
		s.mu.Unlock()
		return model.Certification{}, fmt.Errorf("add certification: %w", err)
	}

	s.certs = append(s.certs, c)
	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.observers.notify(StoreEvent{Kind: EventAdded, Certification: c})

	if persistErr != nil {
		return c, persistErr
	}
	return c, nil
}

// Remove deletes the certification with the given id and persists the
// collection. Removing an absent id is a no-op. If the removed record was
// selected, the selection is cleared.
func (s *CertificationStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	removed := s.certs[idx]
	s.certs = slices.Delete(s.certs, idx, idx+1)

	cleared := false
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
		cleared = true
	}

	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.observers.notify(StoreEvent{Kind: EventRemoved, Certification: removed})
	if cleared {
		s.observers.notify(StoreEvent{Kind: EventSelected})
	}

	if persistErr != nil {
		return persistErr
	}
	return nil
}

// Select sets the certification selected for viewing; nil clears it.
// Membership in the collection is not checked.
func (s *CertificationStore) Select(c *model.Certification) {
	s.mu.Lock()
	var event StoreEvent
	if c == nil {
		s.selected = nil
		event = StoreEvent{Kind: EventSelected}
	} else {
		selected := *c
		s.selected = &selected
		event = StoreEvent{Kind: EventSelected, Certification: selected, Selected: &selected}
	}
	s.mu.Unlock()

	s.observers.notify(event)
}

// SelectByID selects the stored certification with the given id.
func (s *CertificationStore) SelectByID(id string) (model.Certification, error) {
	c, ok := s.Get(id)
	if !ok {
		return model.Certification{}, fmt.Errorf("select %q: %w", id, ErrCertificationNotFound)
	}
	s.Select(&c)
	return c, nil
}

// Subscribe registers fn to be called after every change and returns a
// function that unregisters it.
func (s *CertificationStore) Subscribe(fn func(StoreEvent)) func() {
	return s.observers.subscribe(fn)
}

func (s *CertificationStore) indexLocked(id string) int {
	return slices.IndexFunc(s.certs, func(c model.Certification) bool { return c.ID == id })
}

// uniqueIDLocked returns a UUIDv7 that no stored record uses. UUIDv7 embeds
// the creation timestamp, so ids sort by creation time.
func (s *CertificationStore) uniqueIDLocked() (string, error) {
	const maxAttempts = 3
	for range maxAttempts {
		u, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		id := u.String()
		if s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", errors.New("generate id: collided with existing ids")
}

// persistLocked writes the full collection. Failures are logged and returned
// as *PersistenceError; the in-memory collection stays authoritative.
func (s *CertificationStore) persistLocked(ctx context.Context) error {
	payload, err := encodeCertifications(s.certs)
	if err == nil {
		err = s.slots.Save(ctx, model.Slot{Name: CertificationsSlot, Payload: payload})
	}
	if err != nil {
		perr := &PersistenceError{Slot: CertificationsSlot, Op: "save", Err: err}
		s.logger.Error("failed to persist certifications", "error", perr, "count", len(s.certs))
		return perr
	}
	return nil
}
