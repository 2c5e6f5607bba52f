package model

import "time"

// Slot is a named, fully overwritten unit of durable storage.
type Slot struct {
	Name      string
	Payload   []byte
	UpdatedAt time.Time
}
