package game

import (
	"github.com/shopspring/decimal"

	"github.com/rickpersak/idle-rpg/internal/inventory"
	"github.com/rickpersak/idle-rpg/internal/profession"
	"github.com/rickpersak/idle-rpg/internal/progression"
)

// ResourceGold is the currency ledger key.
const ResourceGold = "gold"

// State is the full mutable game state for one player session.
// Resources is an arbitrary-precision ledger keyed by resource id;
// inventory slots are positional and nil when empty.
type State struct {
	Resources         map[string]decimal.Decimal
	Professions       []profession.Profession
	Inventory         []*inventory.Item
	InventoryCapacity int
}

// NewState returns the fresh-game state: starting gold, level-1 professions,
// and an empty base-capacity inventory.
func NewState(professions []profession.Profession) *State {
	return &State{
		Resources:         map[string]decimal.Decimal{ResourceGold: decimal.NewFromInt(10)},
		Professions:       professions,
		Inventory:         inventory.NewSlots(progression.BaseInventoryCapacity),
		InventoryCapacity: progression.BaseInventoryCapacity,
	}
}

// Gold returns the current gold balance, zero when the ledger has no entry.
func (s *State) Gold() decimal.Decimal {
	return s.Resources[ResourceGold]
}

// AddResource credits the ledger entry for a resource id.
func (s *State) AddResource(id string, amount decimal.Decimal) {
	s.Resources[id] = s.Resources[id].Add(amount)
}

// SubtractResource debits a ledger entry, clamping at zero. Ids the ledger
// does not track are left untracked.
func (s *State) SubtractResource(id string, amount decimal.Decimal) {
	cur, ok := s.Resources[id]
	if !ok {
		return
	}
	next := cur.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	s.Resources[id] = next
}

// ProfessionByID finds a profession by id.
func (s *State) ProfessionByID(id string) (int, bool) {
	for i := range s.Professions {
		if s.Professions[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
