package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/folio/internal/domain/model"
	"github.com/ericfisherdev/folio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SlotStore = (*SlotRepo)(nil)

// SlotRepo is the SQLite implementation of the SlotStore port interface.
type SlotRepo struct {
	db *DB
}

// NewSlotRepo creates a new SlotRepo backed by the given DB.
func NewSlotRepo(db *DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// Load retrieves a slot by name. Returns driven.ErrSlotNotFound if the slot
// has never been saved.
func (r *SlotRepo) Load(ctx context.Context, name string) (model.Slot, error) {
	const query = `SELECT name, payload, updated_at FROM slots WHERE name = ?`

	var slot model.Slot
	var updatedAt string

	err := r.db.Reader.QueryRowContext(ctx, query, name).Scan(&slot.Name, &slot.Payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Slot{}, fmt.Errorf("load slot %q: %w", name, driven.ErrSlotNotFound)
	}
	if err != nil {
		return model.Slot{}, fmt.Errorf("load slot %q: %w", name, err)
	}

	slot.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return model.Slot{}, fmt.Errorf("parse updated_at for slot %q: %w", name, err)
	}

	return slot, nil
}

// Save inserts or fully replaces a slot. A zero UpdatedAt is stamped with the
// current time.
func (r *SlotRepo) Save(ctx context.Context, slot model.Slot) error {
	const query = `
		INSERT INTO slots (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	if slot.Name == "" {
		return errors.New("save slot: empty name")
	}

	updatedAt := slot.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	payload := slot.Payload
	if payload == nil {
		payload = []byte{}
	}

	_, err := r.db.Writer.ExecContext(ctx, query, slot.Name, payload, updatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save slot %q: %w", slot.Name, err)
	}

	return nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
