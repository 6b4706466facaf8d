// Package catalog holds the immutable table of building upgrade transitions.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/napolitain/lastwar-buildtime/internal/models"
)

// Catalog maps (building, transition) to a BuildingLevelEntry.
// It is built once by New and never mutated afterwards, so a single instance
// can be shared by any number of goroutines without locking.
type Catalog struct {
	order     []models.BuildingID
	buildings map[models.BuildingID]*building
	entries   int
}

type building struct {
	name    string
	entries []models.BuildingLevelEntry // insertion order
	byKey   map[string]int
}

// New validates the given buildings and returns a catalog over a private copy of them
func New(buildings []models.Building) (*Catalog, error) {
	c := &Catalog{
		buildings: make(map[models.BuildingID]*building, len(buildings)),
	}

	for _, b := range buildings {
		if strings.TrimSpace(string(b.ID)) == "" {
			return nil, fmt.Errorf("%w: building with empty id", models.ErrInvalidInput)
		}
		if _, dup := c.buildings[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate building %q", models.ErrInvalidInput, b.ID)
		}

		nb := &building{
			name:    b.Name,
			entries: make([]models.BuildingLevelEntry, 0, len(b.Entries)),
			byKey:   make(map[string]int, len(b.Entries)),
		}
		for _, e := range b.Entries {
			if err := validateEntry(b.ID, e); err != nil {
				return nil, err
			}
			key := e.Transition.Key()
			if _, dup := nb.byKey[key]; dup {
				return nil, fmt.Errorf("%w: building %q has duplicate transition %q", models.ErrInvalidInput, b.ID, key)
			}
			nb.byKey[key] = len(nb.entries)
			nb.entries = append(nb.entries, e.Clone())
		}

		c.buildings[b.ID] = nb
		c.order = append(c.order, b.ID)
		c.entries += len(nb.entries)
	}

	return c, nil
}

func validateEntry(id models.BuildingID, e models.BuildingLevelEntry) error {
	if !e.Transition.Valid() {
		return fmt.Errorf("%w: building %q: transition %d→%d must go to a higher level",
			models.ErrInvalidInput, id, e.Transition.From, e.Transition.To)
	}
	if e.BaseSeconds < 0 {
		return fmt.Errorf("%w: building %q %s: negative base duration %d",
			models.ErrInvalidInput, id, e.Transition, e.BaseSeconds)
	}
	for _, rt := range models.AllResourceTypes() {
		v := e.Costs.Get(rt)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: building %q %s: bad %s cost %v",
				models.ErrInvalidInput, id, e.Transition, rt, v)
		}
	}
	for _, p := range e.Prerequisites {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: building %q %s: empty prerequisite",
				models.ErrInvalidInput, id, e.Transition)
		}
	}
	return nil
}

// Lookup returns the entry for a building and transition key.
// The key may use any form ParseTransition accepts. A miss on either key
// returns an error wrapping models.ErrNotFound, never a zero entry.
func (c *Catalog) Lookup(id models.BuildingID, key string) (models.BuildingLevelEntry, error) {
	b, err := c.get(id)
	if err != nil {
		return models.BuildingLevelEntry{}, err
	}

	if i, ok := b.byKey[key]; ok {
		return b.entries[i].Clone(), nil
	}
	t, err := models.ParseTransition(key)
	if err != nil {
		return models.BuildingLevelEntry{}, fmt.Errorf("%w: building %q has no transition %q", models.ErrNotFound, id, key)
	}
	return c.lookup(id, b, t)
}

// LookupTransition is Lookup with an already parsed transition
func (c *Catalog) LookupTransition(id models.BuildingID, t models.Transition) (models.BuildingLevelEntry, error) {
	b, err := c.get(id)
	if err != nil {
		return models.BuildingLevelEntry{}, err
	}
	return c.lookup(id, b, t)
}

func (c *Catalog) lookup(id models.BuildingID, b *building, t models.Transition) (models.BuildingLevelEntry, error) {
	i, ok := b.byKey[t.Key()]
	if !ok {
		return models.BuildingLevelEntry{}, fmt.Errorf("%w: building %q has no transition %q", models.ErrNotFound, id, t.Key())
	}
	return b.entries[i].Clone(), nil
}

func (c *Catalog) get(id models.BuildingID) (*building, error) {
	b, ok := c.buildings[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown building %q", models.ErrNotFound, id)
	}
	return b, nil
}

// Transitions returns a building's transition keys, highest level first
func (c *Catalog) Transitions(id models.BuildingID) ([]string, error) {
	entries, err := c.Entries(id)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Transition.Key()
	}
	return keys, nil
}

// Entries returns copies of a building's entries, highest level first
func (c *Catalog) Entries(id models.BuildingID) ([]models.BuildingLevelEntry, error) {
	b, err := c.get(id)
	if err != nil {
		return nil, err
	}
	out := make([]models.BuildingLevelEntry, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Transition.Less(out[i].Transition)
	})
	return out, nil
}

// Building returns a copy of one building with entries in insertion order
func (c *Catalog) Building(id models.BuildingID) (models.Building, error) {
	b, err := c.get(id)
	if err != nil {
		return models.Building{}, err
	}
	out := models.Building{
		ID:      id,
		Name:    b.name,
		Entries: make([]models.BuildingLevelEntry, len(b.entries)),
	}
	for i, e := range b.entries {
		out.Entries[i] = e.Clone()
	}
	return out, nil
}

// Buildings returns the building ids in load order
func (c *Catalog) Buildings() []models.BuildingID {
	return append([]models.BuildingID(nil), c.order...)
}

// Len returns the total number of transitions across all buildings
func (c *Catalog) Len() int {
	return c.entries
}
