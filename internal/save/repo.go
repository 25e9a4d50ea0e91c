package save

import (
	"context"
	"errors"
)

// ErrSlotNotFound reports a load of a slot key the user's directory lacks.
var ErrSlotNotFound = errors.New("save slot not found")

// Repository stores per-user save directories. PutSlot writes one slot and
// moves the directory's lastSlot pointer to it without touching sibling
// slots, so concurrent saves to different slots never clobber each other.
type Repository interface {
	Load(ctx context.Context, userID string) (Document, error)
	PutSlot(ctx context.Context, userID, slotKey string, snap Snapshot) error
}
