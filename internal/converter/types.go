// Package converter provides conversions between HTTP DTOs and model types
package converter

import (
	"time"
)

// CostsDTO is the wire form of models.Costs
type CostsDTO struct {
	Iron    float64 `json:"iron"`
	Food    float64 `json:"food"`
	Gold    float64 `json:"gold"`
	Display string  `json:"display"`
}

// EntryDTO is the wire form of one catalog row
type EntryDTO struct {
	Building      string   `json:"building"`
	Transition    string   `json:"transition"`
	From          int      `json:"from"`
	To            int      `json:"to"`
	BaseSeconds   int64    `json:"base_seconds"`
	BaseDuration  string   `json:"base_duration"`
	Costs         CostsDTO `json:"costs"`
	Prerequisites []string `json:"prerequisites"`
}

// BuildingDTO summarises a building for listings
type BuildingDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Transitions int    `json:"transitions"`
	Highest     string `json:"highest,omitempty"`
}

// BreakdownDTO is the wire form of models.Breakdown
type BreakdownDTO struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// CalculateRequest selects a base duration (catalog row, seconds, or text)
// and the two speed bonuses.
type CalculateRequest struct {
	Building          string     `json:"building" binding:"required_with=Transition"`
	Transition        string     `json:"transition" binding:"required_with=Building"`
	BaseSeconds       *int64     `json:"base_seconds"`
	Base              string     `json:"base"`
	SelfSpeedPercent  float64    `json:"self_speed_percent"`
	BonusSpeedPercent float64    `json:"bonus_speed_percent"`
	Reference         *time.Time `json:"reference"`
}

// CalculateResponse is the wire form of models.CalculationResult
type CalculateResponse struct {
	BaseSeconds       int64        `json:"base_seconds"`
	TotalSpeedPercent float64      `json:"total_speed_percent"`
	ReducedSeconds    int64        `json:"reduced_seconds"`
	SavedSeconds      int64        `json:"saved_seconds"`
	Breakdown         BreakdownDTO `json:"breakdown"`
	Duration          string       `json:"duration"`
	Reference         time.Time    `json:"reference"`
	Completion        time.Time    `json:"completion"`
	CompletionDisplay string       `json:"completion_display"`
	Entry             *EntryDTO    `json:"entry,omitempty"`
}

// Error kinds reported to clients
const (
	KindNotFound     = "not_found"
	KindInvalidInput = "invalid_input"
	KindInternal     = "internal"
)

// ErrorBody describes a failed request
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// PlanRequest asks for the timeline of a building's upgrades from From to To
type PlanRequest struct {
	Building          string     `json:"building" binding:"required"`
	From              int        `json:"from" binding:"gte=0"`
	To                int        `json:"to" binding:"required,gtfield=From"`
	SelfSpeedPercent  float64    `json:"self_speed_percent"`
	BonusSpeedPercent float64    `json:"bonus_speed_percent"`
	Reference         *time.Time `json:"reference"`
}

// PlanStepDTO is one scheduled upgrade
type PlanStepDTO struct {
	Transition     string    `json:"transition"`
	BaseSeconds    int64     `json:"base_seconds"`
	ReducedSeconds int64     `json:"reduced_seconds"`
	Duration       string    `json:"duration"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	EndDisplay     string    `json:"end_display"`
}

// PlanResponse is the wire form of plan.Plan
type PlanResponse struct {
	Building       string        `json:"building"`
	From           int           `json:"from"`
	To             int           `json:"to"`
	Steps          []PlanStepDTO `json:"steps"`
	BaseSeconds    int64         `json:"base_seconds"`
	ReducedSeconds int64         `json:"reduced_seconds"`
	Duration       string        `json:"duration"`
	Costs          CostsDTO      `json:"costs"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	EndDisplay     string        `json:"end_display"`
}
