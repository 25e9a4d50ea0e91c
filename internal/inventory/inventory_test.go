package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickpersak/idle-rpg/internal/catalog"
	"github.com/rickpersak/idle-rpg/internal/loot"
)

var testCatalog = catalog.Catalog{
	"logs":       {Name: "Logs", Value: 3, Category: catalog.CategoryResource},
	"copper_ore": {Name: "Copper Ore", Value: 4, Category: catalog.CategoryResource},
}

func TestMergeEmptyBatchReturnsOriginalSlots(t *testing.T) {
	slots := NewSlots(5)
	slots[0] = NewItem("logs", 2, testCatalog.Lookup("logs"))

	res := Merge(slots, nil, 5, testCatalog)

	assert.Empty(t, res.Added)
	assert.Empty(t, res.Rejected)
	// no work, no copy
	assert.Same(t, slots[0], res.Slots[0])
}

func TestMergeStacksOntoExisting(t *testing.T) {
	slots := NewSlots(3)
	slots[1] = NewItem("logs", 5, testCatalog.Lookup("logs"))

	res := Merge(slots, []loot.Gain{{ID: "logs", Quantity: 3}}, 3, testCatalog)

	require.NotNil(t, res.Slots[1])
	assert.Equal(t, int64(8), res.Slots[1].Quantity)
	assert.Equal(t, []loot.Gain{{ID: "logs", Quantity: 3}}, res.Added)
	assert.Empty(t, res.Rejected)
	// input untouched
	assert.Equal(t, int64(5), slots[1].Quantity)
}

func TestMergeFillsFirstEmptySlot(t *testing.T) {
	slots := NewSlots(3)
	slots[0] = NewItem("logs", 1, testCatalog.Lookup("logs"))

	res := Merge(slots, []loot.Gain{{ID: "copper_ore", Quantity: 2}}, 3, testCatalog)

	require.NotNil(t, res.Slots[1])
	assert.Equal(t, "copper_ore", res.Slots[1].ID)
	assert.Equal(t, "Copper Ore", res.Slots[1].Name)
	assert.Equal(t, int64(2), res.Slots[1].Quantity)
}

func TestMergeRejectsWholeGainWhenFull(t *testing.T) {
	slots := NewSlots(1)
	slots[0] = NewItem("logs", 1, testCatalog.Lookup("logs"))

	res := Merge(slots, []loot.Gain{
		{ID: "logs", Quantity: 2},
		{ID: "copper_ore", Quantity: 7},
	}, 1, testCatalog)

	assert.Equal(t, []loot.Gain{{ID: "logs", Quantity: 2}}, res.Added)
	assert.Equal(t, []loot.Gain{{ID: "copper_ore", Quantity: 7}}, res.Rejected)
	assert.Equal(t, int64(3), res.Slots[0].Quantity)
}

func TestMergeUnknownResourceUsesFallbackDefinition(t *testing.T) {
	res := Merge(NewSlots(2), []loot.Gain{{ID: "strange_rock", Quantity: 1}}, 2, testCatalog)

	require.NotNil(t, res.Slots[0])
	assert.Equal(t, "strange_rock", res.Slots[0].Name)
	assert.Equal(t, catalog.CategoryMisc, res.Slots[0].Category)
	assert.Equal(t, int64(2), res.Slots[0].Value)
}

func TestMergePadsShortSlicesToCapacity(t *testing.T) {
	// saved documents may carry fewer slots than the saved capacity
	short := []*Item{NewItem("logs", 1, testCatalog.Lookup("logs"))}

	res := Merge(short, []loot.Gain{{ID: "copper_ore", Quantity: 1}}, 4, testCatalog)

	assert.Len(t, res.Slots, 4)
	assert.Equal(t, "copper_ore", res.Slots[1].ID)
}

func TestSlotCounters(t *testing.T) {
	slots := NewSlots(4)
	slots[0] = NewItem("logs", 3, testCatalog.Lookup("logs"))
	slots[2] = NewItem("copper_ore", 2, testCatalog.Lookup("copper_ore"))

	assert.Equal(t, 2, SlotsUsed(slots))
	assert.Equal(t, int64(5), TotalQuantity(slots))
}
