// Package inventory implements the capacity-limited slotted inventory and the
// loot merge engine. Slots are positional; a nil entry is an empty slot.
package inventory

import (
	"github.com/rickpersak/idle-rpg/internal/catalog"
	"github.com/rickpersak/idle-rpg/internal/loot"
)

// Item is one occupied inventory slot: a stack of a single resource.
type Item struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Quantity    int64            `json:"quantity"`
	Value       int64            `json:"value"`
	Description string           `json:"description,omitempty"`
	Category    catalog.Category `json:"category"`
	Icon        string           `json:"icon,omitempty"`
	Lore        string           `json:"lore,omitempty"`
	Uses        []string         `json:"uses,omitempty"`
}

// NewSlots returns an all-empty inventory of the given capacity.
func NewSlots(capacity int) []*Item {
	if capacity < 0 {
		capacity = 0
	}
	return make([]*Item, capacity)
}

// NewItem builds a fresh stack for a resource from its catalog definition.
func NewItem(resourceID string, quantity int64, def catalog.ItemDefinition) *Item {
	return &Item{
		ID:          resourceID,
		Name:        def.Name,
		Quantity:    quantity,
		Value:       def.Value,
		Description: def.Description,
		Category:    def.Category,
		Icon:        def.Icon,
		Lore:        def.Lore,
		Uses:        def.Uses,
	}
}

// Clone deep-copies an item.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	if it.Uses != nil {
		cp.Uses = append([]string(nil), it.Uses...)
	}
	return &cp
}

// MergeResult reports the outcome of merging a loot batch into an inventory.
// Added and Rejected are coalesced per resource id in first-seen order.
type MergeResult struct {
	Slots    []*Item
	Added    []loot.Gain
	Rejected []loot.Gain
}

// Merge folds a batch of loot gains into the inventory. Each gain first tops
// up an existing stack of the same resource; otherwise it takes the first
// empty slot; otherwise the whole gain is rejected. Stacks are unbounded, so
// a gain is never split. The input slots are not mutated.
func Merge(slots []*Item, gains []loot.Gain, capacity int, cat catalog.Catalog) MergeResult {
	if len(gains) == 0 {
		return MergeResult{Slots: slots}
	}

	next := make([]*Item, capacity)
	for i := 0; i < len(slots) && i < capacity; i++ {
		next[i] = slots[i].Clone()
	}

	added := loot.NewCollector()
	rejected := loot.NewCollector()

	for _, g := range gains {
		if g.Quantity <= 0 {
			continue
		}
		if stack := findStack(next, g.ID); stack != nil {
			stack.Quantity += g.Quantity
			added.Add(g.ID, g.Quantity)
			continue
		}
		if i := firstEmpty(next); i >= 0 {
			next[i] = NewItem(g.ID, g.Quantity, cat.Lookup(g.ID))
			added.Add(g.ID, g.Quantity)
			continue
		}
		rejected.Add(g.ID, g.Quantity)
	}

	return MergeResult{Slots: next, Added: added.Gains(), Rejected: rejected.Gains()}
}

func findStack(slots []*Item, resourceID string) *Item {
	for _, it := range slots {
		if it != nil && it.ID == resourceID {
			return it
		}
	}
	return nil
}

func firstEmpty(slots []*Item) int {
	for i, it := range slots {
		if it == nil {
			return i
		}
	}
	return -1
}

// SlotsUsed counts occupied slots.
func SlotsUsed(slots []*Item) int {
	n := 0
	for _, it := range slots {
		if it != nil {
			n++
		}
	}
	return n
}

// TotalQuantity sums stack quantities across all occupied slots.
func TotalQuantity(slots []*Item) int64 {
	var total int64
	for _, it := range slots {
		if it != nil {
			total += it.Quantity
		}
	}
	return total
}
