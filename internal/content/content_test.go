package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContentParses(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	cat := c.Catalog()
	assert.Equal(t, "Copper Ore", cat.Lookup("copper_ore").Name)
	assert.Equal(t, int64(4), cat.Lookup("copper_ore").Value)

	profs := c.Professions()
	require.NotEmpty(t, profs)
	assert.Equal(t, "mining", profs[0].ID)
	assert.Equal(t, 1, profs[0].Level)
	assert.Equal(t, "copper_ore", profs[0].Tasks[0].ResourceID)
	assert.Equal(t, 3000, profs[0].Tasks[0].TimeToComplete)
}

func TestProfessionsReturnsFreshInstances(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	a := c.Professions()
	a[0].Level = 50
	a[0].Tasks[0].Experience = 999

	b := c.Professions()
	assert.Equal(t, 1, b[0].Level)
	assert.Equal(t, 10, b[0].Tasks[0].Experience)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yml")
	doc := `
items:
  pebble:
    name: Pebble
    value: 1
    category: misc
professions:
  - id: mining
    name: Mining
    tasks:
      - id: gather_pebbles
        name: Gather Pebbles
        required_level: 1
        experience: 1
        time_to_complete_ms: 1000
        resource_id: pebble
        resource_quantity: 2
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Pebble", c.Catalog().Lookup("pebble").Name)
	assert.Equal(t, int64(2), c.Professions()[0].Tasks[0].ResourceQuantity)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ProfDefs)
}

func TestParseRejectsNoProfessions(t *testing.T) {
	_, err := parse([]byte("items: {}\nprofessions: []\n"))
	assert.Error(t, err)
}
