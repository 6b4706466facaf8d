package models

import (
	"fmt"
	"time"
)

// ResourceType represents the resources an upgrade consumes
type ResourceType string

const (
	Iron ResourceType = "iron"
	Food ResourceType = "food"
	Gold ResourceType = "gold"
)

// AllResourceTypes returns all resource types in display order
func AllResourceTypes() []ResourceType {
	return []ResourceType{Iron, Food, Gold}
}

// BuildingID identifies a building in the catalog (e.g. "본부")
type BuildingID string

// Costs represents resource costs for an upgrade, in raw units
type Costs struct {
	Iron float64
	Food float64
	Gold float64
}

// Get returns the cost for a specific resource type
func (c Costs) Get(rt ResourceType) float64 {
	switch rt {
	case Iron:
		return c.Iron
	case Food:
		return c.Food
	case Gold:
		return c.Gold
	}
	return 0
}

// Total returns the sum of all components
func (c Costs) Total() float64 {
	return c.Iron + c.Food + c.Gold
}

// Add returns the component-wise sum of c and o
func (c Costs) Add(o Costs) Costs {
	return Costs{Iron: c.Iron + o.Iron, Food: c.Food + o.Food, Gold: c.Gold + o.Gold}
}

// IsZero reports whether every component is zero
func (c Costs) IsZero() bool {
	return c.Iron == 0 && c.Food == 0 && c.Gold == 0
}

// BuildingLevelEntry is one upgrade transition for one building
type BuildingLevelEntry struct {
	Transition    Transition
	BaseSeconds   int64
	Costs         Costs
	Prerequisites []string
}

// BaseDuration returns the base upgrade time as a time.Duration
func (e BuildingLevelEntry) BaseDuration() time.Duration {
	return time.Duration(e.BaseSeconds) * time.Second
}

// Clone returns a copy that shares no memory with e
func (e BuildingLevelEntry) Clone() BuildingLevelEntry {
	out := e
	if e.Prerequisites != nil {
		out.Prerequisites = append([]string(nil), e.Prerequisites...)
	}
	return out
}

// Building represents a building with all its upgrade transitions
type Building struct {
	ID      BuildingID
	Name    string // display name, falls back to ID
	Entries []BuildingLevelEntry
}

// DisplayName returns Name, or the ID when no name was configured
func (b Building) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return string(b.ID)
}

// Acceleration holds the two speed bonuses a player applies to an upgrade.
// SelfSpeedPercent is the player's own construction speed; BonusSpeedPercent
// is the externally granted modifier (e.g. an appointed minister).
type Acceleration struct {
	SelfSpeedPercent  float64
	BonusSpeedPercent float64
}

// Speeds returns the bonuses as the ordered list the calculator sums
func (a Acceleration) Speeds() []float64 {
	return []float64{a.SelfSpeedPercent, a.BonusSpeedPercent}
}

// Breakdown is a duration split into days, hours, minutes and seconds
type Breakdown struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// TotalSeconds recombines the breakdown into a seconds count
func (b Breakdown) TotalSeconds() int64 {
	return b.Days*86400 + b.Hours*3600 + b.Minutes*60 + b.Seconds
}

// Duration returns the breakdown as a time.Duration
func (b Breakdown) Duration() time.Duration {
	return time.Duration(b.TotalSeconds()) * time.Second
}

// String formats as "1D 20:54:11"
func (b Breakdown) String() string {
	return fmt.Sprintf("%dD %02d:%02d:%02d", b.Days, b.Hours, b.Minutes, b.Seconds)
}

// CalculationResult is the output of one duration reduction
type CalculationResult struct {
	BaseSeconds       int64
	TotalSpeedPercent float64
	ReducedSeconds    int64
	SavedSeconds      int64 // BaseSeconds - ReducedSeconds
	Breakdown         Breakdown
	ReferenceInstant  time.Time
	CompletionInstant time.Time
}

// ReducedDuration returns the reduced time as a time.Duration
func (r CalculationResult) ReducedDuration() time.Duration {
	return time.Duration(r.ReducedSeconds) * time.Second
}
