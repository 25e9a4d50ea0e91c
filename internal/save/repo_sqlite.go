package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rickpersak/idle-rpg/internal/game"
)

// SQLiteRepo persists save directories as one row per slot plus a per-user
// meta row holding the lastSlot pointer. Slot writes are upserts, so saving
// one slot never rewrites its siblings.
type SQLiteRepo struct {
	db    *sql.DB
	clock game.Clock
}

func NewSQLiteRepo(db *sql.DB, clock game.Clock) *SQLiteRepo {
	return &SQLiteRepo{db: db, clock: clock}
}

func (r *SQLiteRepo) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS save_slots (
	user_id  TEXT NOT NULL,
	slot_key TEXT NOT NULL,
	snapshot TEXT NOT NULL,
	saved_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, slot_key)
);
CREATE TABLE IF NOT EXISTS save_meta (
	user_id   TEXT PRIMARY KEY,
	last_slot TEXT NOT NULL
);`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure save schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Load(ctx context.Context, userID string) (Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slot_key, snapshot FROM save_slots WHERE user_id = ?`, userID)
	if err != nil {
		return Document{}, fmt.Errorf("query save slots: %w", err)
	}
	defer rows.Close()

	slots := map[string]json.RawMessage{}
	for rows.Next() {
		var key string
		var blob []byte
		if err := rows.Scan(&key, &blob); err != nil {
			return Document{}, fmt.Errorf("scan save slot: %w", err)
		}
		slots[key] = json.RawMessage(blob)
	}
	if err := rows.Err(); err != nil {
		return Document{}, fmt.Errorf("iterate save slots: %w", err)
	}

	var lastSlot string
	err = r.db.QueryRowContext(ctx,
		`SELECT last_slot FROM save_meta WHERE user_id = ?`, userID).Scan(&lastSlot)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("query save meta: %w", err)
	}

	if len(slots) == 0 && lastSlot == "" {
		return ParseDocument(nil, r.clock.Now()), nil
	}

	raw, err := json.Marshal(struct {
		Slots    map[string]json.RawMessage `json:"slots"`
		LastSlot string                     `json:"lastSlot,omitempty"`
	}{Slots: slots, LastSlot: lastSlot})
	if err != nil {
		return Document{}, fmt.Errorf("assemble save document: %w", err)
	}
	return ParseDocument(raw, r.clock.Now()), nil
}

func (r *SQLiteRepo) PutSlot(ctx context.Context, userID, slotKey string, snap Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO save_slots (user_id, slot_key, snapshot, saved_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, slot_key)
DO UPDATE SET snapshot = excluded.snapshot, saved_at = excluded.saved_at`,
		userID, slotKey, string(blob), snap.SavedAt)
	if err != nil {
		return fmt.Errorf("write save slot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO save_meta (user_id, last_slot) VALUES (?, ?)
ON CONFLICT (user_id) DO UPDATE SET last_slot = excluded.last_slot`,
		userID, slotKey)
	if err != nil {
		return fmt.Errorf("write save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}
