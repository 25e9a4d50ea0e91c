package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPForLevelCurve(t *testing.T) {
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 125, XPForLevel(2))
	assert.Equal(t, 156, XPForLevel(3))
	assert.Equal(t, 100, XPForLevel(0)) // clamped
}

func TestXPForLevelMonotonic(t *testing.T) {
	prev := XPForLevel(1)
	for level := 2; level <= 60; level++ {
		cur := XPForLevel(level)
		assert.Greater(t, cur, prev, "level %d", level)
		prev = cur
	}
}

func TestInventoryUpgradeCost(t *testing.T) {
	assert.Equal(t, int64(250), InventoryUpgradeCost(BaseInventoryCapacity))
	assert.Equal(t, int64(400), InventoryUpgradeCost(BaseInventoryCapacity+InventoryUpgradeStep))
	assert.Equal(t, int64(640), InventoryUpgradeCost(BaseInventoryCapacity+2*InventoryUpgradeStep))
	// capacities below base never discount the first purchase
	assert.Equal(t, int64(250), InventoryUpgradeCost(10))
}
