package session

import (
	"github.com/shopspring/decimal"

	"github.com/rickpersak/idle-rpg/internal/inventory"
	"github.com/rickpersak/idle-rpg/internal/profession"
	"github.com/rickpersak/idle-rpg/internal/progression"
)

// StateView is the JSON shape the client renders from. Resource amounts are
// decimal strings; professions and inventory mirror the save format.
type StateView struct {
	InSession         bool                    `json:"inSession"`
	Resources         map[string]string       `json:"resources,omitempty"`
	Professions       []profession.Profession `json:"professions,omitempty"`
	Inventory         []*inventory.Item       `json:"inventory,omitempty"`
	InventoryCapacity int                     `json:"inventoryCapacity,omitempty"`
	SlotsUsed         int                     `json:"slotsUsed"`
	TotalQuantity     int64                   `json:"totalQuantity"`
	UpgradeCost       int64                   `json:"upgradeCost,omitempty"`
	CanAffordUpgrade  bool                    `json:"canAffordUpgrade"`
}

// StateView renders the current state. Outside a session only InSession is
// meaningful; the client shows the main menu.
func (c *Controller) StateView() StateView {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return StateView{}
	}

	resources := make(map[string]string, len(c.state.Resources))
	for id, amount := range c.state.Resources {
		resources[id] = amount.String()
	}
	professions := make([]profession.Profession, 0, len(c.state.Professions))
	for _, p := range c.state.Professions {
		professions = append(professions, p.Clone())
	}
	items := make([]*inventory.Item, len(c.state.Inventory))
	for i, it := range c.state.Inventory {
		items[i] = it.Clone()
	}

	cost := progression.InventoryUpgradeCost(c.state.InventoryCapacity)
	return StateView{
		InSession:         true,
		Resources:         resources,
		Professions:       professions,
		Inventory:         items,
		InventoryCapacity: c.state.InventoryCapacity,
		SlotsUsed:         inventory.SlotsUsed(c.state.Inventory),
		TotalQuantity:     inventory.TotalQuantity(c.state.Inventory),
		UpgradeCost:       cost,
		CanAffordUpgrade:  !c.state.Gold().LessThan(decimal.NewFromInt(cost)),
	}
}
