package save

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/rickpersak/idle-rpg/internal/inventory"
	"github.com/rickpersak/idle-rpg/internal/profession"
)

// Document is a user's normalized save directory: named slots plus the slot
// most recently written. Current mirrors the last-written snapshot when one
// exists.
type Document struct {
	Current  *Snapshot           `json:"current,omitempty"`
	Slots    map[string]Snapshot `json:"slots"`
	LastSlot string              `json:"lastSlot,omitempty"`
}

// documentWire accepts every historical document shape at once. The oldest
// clients stored a single snapshot's fields inline at the top level; later
// ones wrote {current, slots, lastSlot} with partially-filled snapshots.
type documentWire struct {
	Current  *Snapshot           `json:"current"`
	Slots    map[string]Snapshot `json:"slots"`
	LastSlot string              `json:"lastSlot"`

	Resources         map[string]string       `json:"resources"`
	Professions       []profession.Profession `json:"professions"`
	Inventory         []*inventory.Item       `json:"inventory"`
	InventoryCapacity int                     `json:"inventoryCapacity"`
	SavedAt           int64                   `json:"savedAt"`
	SaveName          string                  `json:"saveName"`
	SlotName          string                  `json:"slotName"`
}

// ParseDocument normalizes a raw save document. It is total: malformed or
// empty input yields an empty directory instead of an error, so a corrupt
// blob never locks a player out of starting fresh. Missing slot or save
// names default from the slot key; missing timestamps default to now.
func ParseDocument(raw []byte, now time.Time) Document {
	empty := Document{Slots: map[string]Snapshot{}}
	if len(raw) == 0 {
		return empty
	}

	var wire documentWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return empty
	}

	// legacy single-snapshot document
	if wire.Resources != nil {
		snap := Snapshot{
			Resources:         wire.Resources,
			Professions:       wire.Professions,
			Inventory:         wire.Inventory,
			InventoryCapacity: wire.InventoryCapacity,
			SavedAt:           wire.SavedAt,
			SaveName:          wire.SaveName,
			SlotName:          wire.SlotName,
		}
		if snap.SlotName == "" {
			snap.SlotName = DefaultSlotKey
		}
		if snap.SaveName == "" {
			snap.SaveName = DefaultSlotName
		}
		if snap.SavedAt == 0 {
			snap.SavedAt = now.UnixMilli()
		}
		return Document{
			Current:  &snap,
			Slots:    map[string]Snapshot{DefaultSlotKey: snap},
			LastSlot: DefaultSlotKey,
		}
	}

	slots := map[string]Snapshot{}
	for key, snap := range wire.Slots {
		if snap.SlotName == "" {
			snap.SlotName = key
		}
		if snap.SaveName == "" {
			snap.SaveName = key
		}
		if snap.SavedAt == 0 {
			snap.SavedAt = now.UnixMilli()
		}
		slots[key] = snap
	}

	doc := Document{Slots: slots, LastSlot: wire.LastSlot}
	if wire.Current != nil {
		cur := *wire.Current
		if cur.SlotName == "" {
			cur.SlotName = DefaultSlotKey
		}
		if cur.SaveName == "" {
			cur.SaveName = DefaultSlotName
		}
		if cur.SavedAt == 0 {
			cur.SavedAt = now.UnixMilli()
		}
		slots[cur.SlotName] = cur
		doc.Current = &cur
		if doc.LastSlot == "" {
			doc.LastSlot = cur.SlotName
		}
	}
	return doc
}

// SlotKeys returns the directory's slot keys sorted for stable iteration.
func (d Document) SlotKeys() []string {
	keys := make([]string, 0, len(d.Slots))
	for k := range d.Slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
