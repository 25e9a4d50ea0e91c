// Package save handles durable game snapshots: serializing state, migrating
// legacy save documents, and the per-user multi-slot save directory.
package save

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickpersak/idle-rpg/internal/game"
	"github.com/rickpersak/idle-rpg/internal/inventory"
	"github.com/rickpersak/idle-rpg/internal/profession"
	"github.com/rickpersak/idle-rpg/internal/progression"
)

const (
	// DefaultSlotKey is the reserved slot the autosave loop writes to.
	DefaultSlotKey  = "autosave"
	DefaultSlotName = "Autosave"
)

// Snapshot is one persisted game state. Resources are stored as decimal
// strings so the wire format never loses precision. SavedAt is unix millis.
type Snapshot struct {
	Resources         map[string]string       `json:"resources"`
	Professions       []profession.Profession `json:"professions"`
	Inventory         []*inventory.Item       `json:"inventory,omitempty"`
	InventoryCapacity int                     `json:"inventoryCapacity,omitempty"`
	SavedAt           int64                   `json:"savedAt,omitempty"`
	SaveName          string                  `json:"saveName,omitempty"`
	SlotName          string                  `json:"slotName,omitempty"`
}

// Overrides names a snapshot at serialization time. Zero values fall back to
// the autosave identity.
type Overrides struct {
	SlotName string
	SaveName string
}

// Serialize captures the state into a snapshot stamped at now.
func Serialize(st *game.State, now time.Time, ov Overrides) Snapshot {
	slot := ov.SlotName
	if slot == "" {
		slot = DefaultSlotKey
	}
	name := ov.SaveName
	if name == "" {
		name = DefaultSlotName
	}

	resources := make(map[string]string, len(st.Resources))
	for id, amount := range st.Resources {
		resources[id] = amount.String()
	}

	professions := make([]profession.Profession, 0, len(st.Professions))
	for _, p := range st.Professions {
		professions = append(professions, p.Clone())
	}

	items := make([]*inventory.Item, len(st.Inventory))
	for i, it := range st.Inventory {
		items[i] = it.Clone()
	}

	return Snapshot{
		Resources:         resources,
		Professions:       professions,
		Inventory:         items,
		InventoryCapacity: st.InventoryCapacity,
		SavedAt:           now.UnixMilli(),
		SaveName:          name,
		SlotName:          slot,
	}
}

// Hydrate rebuilds live state from a snapshot. Missing fields get the
// new-game defaults; inventory slots are copied positionally and truncated
// or padded to the saved capacity. Unparseable resource amounts load as zero
// rather than failing the whole document.
func Hydrate(s Snapshot) *game.State {
	capacity := s.InventoryCapacity
	if capacity <= 0 {
		capacity = progression.BaseInventoryCapacity
	}

	resources := map[string]decimal.Decimal{}
	if s.Resources == nil {
		resources[game.ResourceGold] = decimal.NewFromInt(10)
	} else {
		for id, raw := range s.Resources {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				amount = decimal.Zero
			}
			resources[id] = amount
		}
	}

	professions := make([]profession.Profession, 0, len(s.Professions))
	for _, p := range s.Professions {
		professions = append(professions, p.Clone())
	}

	slots := inventory.NewSlots(capacity)
	for i := 0; i < len(s.Inventory) && i < capacity; i++ {
		slots[i] = s.Inventory[i].Clone()
	}

	return &game.State{
		Resources:         resources,
		Professions:       professions,
		Inventory:         slots,
		InventoryCapacity: capacity,
	}
}
