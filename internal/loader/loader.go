// Package loader builds a catalog from the embedded data or an external file.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/lastwar-buildtime/internal/catalog"
	"github.com/napolitain/lastwar-buildtime/internal/data"
	"github.com/napolitain/lastwar-buildtime/internal/models"
)

// Compiled once; the schema is embedded so a failure here is a build defect
var catalogSchema = jsonschema.MustCompileString("buildtime.schema.json", data.Schema)

// CatalogJSON represents the document structure for a catalog file
type CatalogJSON struct {
	Version   string         `json:"version,omitempty" yaml:"version,omitempty"`
	Buildings []BuildingJSON `json:"buildings" yaml:"buildings"`
}

// BuildingJSON represents one building and its transitions
type BuildingJSON struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Transitions []TransitionJSON `json:"transitions" yaml:"transitions"`
}

// TransitionJSON represents one upgrade row
type TransitionJSON struct {
	From          int       `json:"from" yaml:"from"`
	To            int       `json:"to" yaml:"to"`
	BaseSeconds   int64     `json:"base_seconds" yaml:"base_seconds"`
	Costs         CostsJSON `json:"costs" yaml:"costs"`
	Prerequisites []string  `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// CostsJSON represents the resource triple in raw units
type CostsJSON struct {
	Iron float64 `json:"iron" yaml:"iron"`
	Food float64 `json:"food" yaml:"food"`
	Gold float64 `json:"gold" yaml:"gold"`
}

// Load returns the embedded catalog when path is empty, otherwise the file at path
func Load(path string) (*catalog.Catalog, error) {
	if path == "" {
		return LoadDefault()
	}
	return LoadFile(path)
}

// LoadDefault loads the catalog compiled into the binary
func LoadDefault() (*catalog.Catalog, error) {
	return ParseJSON(data.Catalog, data.CatalogFile)
}

// LoadFile loads a .json, .yaml or .yml catalog file
func LoadFile(path string) (*catalog.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(raw, name)
	case ".yaml", ".yml":
		return ParseYAML(raw, name)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// ParseJSON validates raw against the catalog schema and builds a catalog from it
func ParseJSON(raw []byte, name string) (*catalog.Catalog, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if err := catalogSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", name, err)
	}

	var parsed CatalogJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	c, err := catalog.New(parsed.toModels())
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", name, err)
	}
	return c, nil
}

// ParseYAML converts a YAML catalog to JSON so it goes through the same schema
func ParseYAML(raw []byte, name string) (*catalog.Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", name, err)
	}
	return ParseJSON(asJSON, name)
}

func (c CatalogJSON) toModels() []models.Building {
	buildings := make([]models.Building, 0, len(c.Buildings))
	for _, raw := range c.Buildings {
		b := models.Building{
			ID:      models.BuildingID(raw.ID),
			Name:    raw.Name,
			Entries: make([]models.BuildingLevelEntry, 0, len(raw.Transitions)),
		}
		for _, t := range raw.Transitions {
			b.Entries = append(b.Entries, models.BuildingLevelEntry{
				Transition:    models.Transition{From: t.From, To: t.To},
				BaseSeconds:   t.BaseSeconds,
				Costs:         models.Costs{Iron: t.Costs.Iron, Food: t.Costs.Food, Gold: t.Costs.Gold},
				Prerequisites: t.Prerequisites,
			})
		}
		buildings = append(buildings, b)
	}
	return buildings
}

// FromCatalog converts a catalog back into its document form, buildings in load order
func FromCatalog(c *catalog.Catalog) CatalogJSON {
	var out CatalogJSON
	for _, id := range c.Buildings() {
		b, err := c.Building(id)
		if err != nil {
			continue
		}
		bj := BuildingJSON{ID: string(b.ID), Name: b.Name}
		for _, e := range b.Entries {
			bj.Transitions = append(bj.Transitions, TransitionJSON{
				From:          e.Transition.From,
				To:            e.Transition.To,
				BaseSeconds:   e.BaseSeconds,
				Costs:         CostsJSON{Iron: e.Costs.Iron, Food: e.Costs.Food, Gold: e.Costs.Gold},
				Prerequisites: e.Prerequisites,
			})
		}
		out.Buildings = append(out.Buildings, bj)
	}
	return out
}
