// Package content loads the game's static content: the item catalog and the
// profession task lists. A default document is embedded; deployments may
// override it with a YAML file on disk.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rickpersak/idle-rpg/internal/catalog"
	"github.com/rickpersak/idle-rpg/internal/profession"
)

//go:embed content.yml
var defaultContent []byte

// ProfessionDef declares one profession and its ordered task list. Task order
// is load-bearing: saved games reference tasks by index.
type ProfessionDef struct {
	ID    string                 `yaml:"id"`
	Name  string                 `yaml:"name"`
	Tasks []profession.SkillTask `yaml:"tasks"`
}

type Content struct {
	Items    map[string]catalog.ItemDefinition `yaml:"items"`
	ProfDefs []ProfessionDef                   `yaml:"professions"`
}

// Default parses the embedded content document.
func Default() (*Content, error) {
	return parse(defaultContent)
}

// Load reads content from a YAML file, falling back to the embedded default
// when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if len(c.ProfDefs) == 0 {
		return nil, fmt.Errorf("content declares no professions")
	}
	if c.Items == nil {
		c.Items = map[string]catalog.ItemDefinition{}
	}
	return &c, nil
}

// Catalog returns the item catalog.
func (c *Content) Catalog() catalog.Catalog {
	return catalog.Catalog(c.Items)
}

// Professions returns fresh level-1 profession instances for a new game.
func (c *Content) Professions() []profession.Profession {
	out := make([]profession.Profession, 0, len(c.ProfDefs))
	for _, def := range c.ProfDefs {
		out = append(out, profession.New(def.ID, def.Name, append([]profession.SkillTask(nil), def.Tasks...)))
	}
	return out
}
