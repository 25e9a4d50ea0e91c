package save

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rickpersak/idle-rpg/internal/game"
)

// MemoryRepo keeps save directories in memory. It stores raw snapshot blobs
// and funnels loads through ParseDocument, the same path the SQLite repo
// takes, so tests exercise the real normalization.
type MemoryRepo struct {
	mu    sync.Mutex
	clock game.Clock
	users map[string]*memoryDir
}

type memoryDir struct {
	slots    map[string]json.RawMessage
	lastSlot string
}

func NewMemoryRepo(clock game.Clock) *MemoryRepo {
	return &MemoryRepo{clock: clock, users: map[string]*memoryDir{}}
}

func (r *MemoryRepo) Load(_ context.Context, userID string) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir, ok := r.users[userID]
	if !ok {
		return ParseDocument(nil, r.clock.Now()), nil
	}
	raw, err := json.Marshal(struct {
		Slots    map[string]json.RawMessage `json:"slots"`
		LastSlot string                     `json:"lastSlot,omitempty"`
	}{Slots: dir.slots, LastSlot: dir.lastSlot})
	if err != nil {
		return Document{}, fmt.Errorf("assemble save document: %w", err)
	}
	return ParseDocument(raw, r.clock.Now()), nil
}

func (r *MemoryRepo) PutSlot(_ context.Context, userID, slotKey string, snap Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir, ok := r.users[userID]
	if !ok {
		dir = &memoryDir{slots: map[string]json.RawMessage{}}
		r.users[userID] = dir
	}
	dir.slots[slotKey] = blob
	dir.lastSlot = slotKey
	return nil
}

// SeedRaw installs a user's directory from a raw document blob, accepting
// any historical shape. Test helper for exercising migrations end to end.
func (r *MemoryRepo) SeedRaw(userID string, raw []byte) {
	doc := ParseDocument(raw, r.clock.Now())
	dir := &memoryDir{slots: map[string]json.RawMessage{}, lastSlot: doc.LastSlot}
	for key, snap := range doc.Slots {
		blob, err := json.Marshal(snap)
		if err != nil {
			continue
		}
		dir.slots[key] = blob
	}
	r.mu.Lock()
	r.users[userID] = dir
	r.mu.Unlock()
}
