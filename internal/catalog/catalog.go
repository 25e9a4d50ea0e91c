package catalog

// Category buckets inventory items for display and equip gating.
type Category string

const (
	CategoryResource   Category = "resource"
	CategoryWeapon     Category = "weapon"
	CategoryArmor      Category = "armor"
	CategoryConsumable Category = "consumable"
	CategoryTool       Category = "tool"
	CategoryMisc       Category = "misc"
)

// ItemDefinition is the static display and economic metadata for a resource.
type ItemDefinition struct {
	Name        string   `json:"name"`
	Value       int64    `json:"value"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Icon        string   `json:"icon,omitempty"`
	Lore        string   `json:"lore,omitempty"`
	Uses        []string `json:"uses,omitempty"`
}

// Catalog maps resource ids to their definitions.
type Catalog map[string]ItemDefinition

// fallback covers resource ids with no catalog entry. Unknown resources are
// legal: content additions may land before the catalog learns about them.
var fallback = ItemDefinition{
	Name:        "Mysterious Find",
	Value:       2,
	Description: "A curious item recovered during your travels.",
	Category:    CategoryMisc,
	Icon:        "❔",
	Lore:        "You are not entirely sure what this does, but it looks important.",
}

// Lookup returns the definition for a resource id. Unknown ids get the
// fallback definition with the id itself as the display name.
func (c Catalog) Lookup(resourceID string) ItemDefinition {
	if def, ok := c[resourceID]; ok {
		return def
	}
	def := fallback
	def.Name = resourceID
	return def
}
