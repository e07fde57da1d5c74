package session

import (
	"context"
	"errors"
)

// StorageKey is the well-known slot name holding the serialized analysis result.
const StorageKey = "medicalData"

// ErrSlotEmpty is returned by Load when nothing is stored for the session.
var ErrSlotEmpty = errors.New("session slot empty")

// Slot is the durable per-session key/value space backing a Store.
type Slot interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// volatileSlot marks a slot whose data is lost with the process. The registry
// deletes such entries when it evicts their session.
type volatileSlot interface {
	volatile() bool
}
