// Package progression holds the pure balance curves: experience thresholds
// and inventory expansion pricing.
package progression

import "math"

const (
	BaseInventoryCapacity = 25
	InventoryUpgradeStep  = 5
)

// XPForLevel returns the experience required to advance past the given level.
// floor(100 * 1.25^(level-1)); strictly increasing for level >= 1.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(1.25, float64(level-1))))
}

// InventoryUpgradeCost returns the gold price of the next capacity upgrade
// given the current capacity. Each purchase raises the price geometrically.
func InventoryUpgradeCost(capacity int) int64 {
	purchased := (capacity - BaseInventoryCapacity) / InventoryUpgradeStep
	if purchased < 0 {
		purchased = 0
	}
	return int64(math.Round(250 * math.Pow(1.6, float64(purchased))))
}
