package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SlotInfo summarizes one stored save slot for operator inspection.
type SlotInfo struct {
	Key      string
	SaveName string
	SavedAt  time.Time
	Bytes    int
	LastSlot bool
}

// ListSlots reads a user's save directory straight from the database. Meant
// for the ops CLI; the running service goes through the save repository.
func ListSlots(ctx context.Context, db *sql.DB, userID string) ([]SlotInfo, error) {
	var lastSlot string
	err := db.QueryRowContext(ctx,
		`SELECT last_slot FROM save_meta WHERE user_id = ?`, userID).Scan(&lastSlot)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query save meta: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT slot_key, snapshot, saved_at FROM save_slots WHERE user_id = ? ORDER BY slot_key`, userID)
	if err != nil {
		return nil, fmt.Errorf("query save slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var key string
		var blob []byte
		var savedAt int64
		if err := rows.Scan(&key, &blob, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save slot: %w", err)
		}
		info := SlotInfo{
			Key:      key,
			SavedAt:  time.UnixMilli(savedAt),
			Bytes:    len(blob),
			LastSlot: key == lastSlot,
		}
		var snap struct {
			SaveName string `json:"saveName"`
		}
		if err := json.Unmarshal(blob, &snap); err == nil {
			info.SaveName = snap.SaveName
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate save slots: %w", err)
	}
	return out, nil
}

// ListUsers returns every user id with at least one save slot.
func ListUsers(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM save_slots ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query save users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate save users: %w", err)
	}
	return out, nil
}
