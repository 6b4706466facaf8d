package converter

import (
	"errors"
	"time"

	"github.com/napolitain/lastwar-buildtime/internal/format"
	"github.com/napolitain/lastwar-buildtime/internal/models"
	"github.com/napolitain/lastwar-buildtime/internal/plan"
)

// CostsToDTO converts model Costs to its wire form
func CostsToDTO(c models.Costs) CostsDTO {
	return CostsDTO{
		Iron:    c.Iron,
		Food:    c.Food,
		Gold:    c.Gold,
		Display: format.Costs(c),
	}
}

// EntryToDTO converts a catalog row of building id
func EntryToDTO(id models.BuildingID, e models.BuildingLevelEntry) EntryDTO {
	prereqs := e.Prerequisites
	if prereqs == nil {
		prereqs = []string{}
	}
	return EntryDTO{
		Building:      string(id),
		Transition:    e.Transition.Key(),
		From:          e.Transition.From,
		To:            e.Transition.To,
		BaseSeconds:   e.BaseSeconds,
		BaseDuration:  format.Duration(e.BaseSeconds),
		Costs:         CostsToDTO(e.Costs),
		Prerequisites: prereqs,
	}
}

// EntriesToDTO converts rows, keeping their order
func EntriesToDTO(id models.BuildingID, entries []models.BuildingLevelEntry) []EntryDTO {
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryToDTO(id, e))
	}
	return out
}

// BuildingToDTO summarises a building; Highest is its top transition
func BuildingToDTO(b models.Building) BuildingDTO {
	dto := BuildingDTO{
		ID:          string(b.ID),
		Name:        b.DisplayName(),
		Transitions: len(b.Entries),
	}
	var highest models.Transition
	for i, e := range b.Entries {
		if i == 0 || highest.Less(e.Transition) {
			highest = e.Transition
		}
	}
	if len(b.Entries) > 0 {
		dto.Highest = highest.Key()
	}
	return dto
}

// BreakdownToDTO converts a breakdown to its wire form
func BreakdownToDTO(b models.Breakdown) BreakdownDTO {
	return BreakdownDTO{Days: b.Days, Hours: b.Hours, Minutes: b.Minutes, Seconds: b.Seconds}
}

// ResultToDTO converts a calculation result, rendering the completion in loc
func ResultToDTO(r models.CalculationResult, loc *time.Location) CalculateResponse {
	if loc == nil {
		loc = time.UTC
	}
	completion := r.CompletionInstant.In(loc)
	return CalculateResponse{
		BaseSeconds:       r.BaseSeconds,
		TotalSpeedPercent: r.TotalSpeedPercent,
		ReducedSeconds:    r.ReducedSeconds,
		SavedSeconds:      r.SavedSeconds,
		Breakdown:         BreakdownToDTO(r.Breakdown),
		Duration:          r.Breakdown.String(),
		Reference:         r.ReferenceInstant.In(loc),
		Completion:        completion,
		CompletionDisplay: format.Instant(completion),
	}
}

// PlanToDTO converts a plan, rendering instants in loc
func PlanToDTO(p plan.Plan, loc *time.Location) PlanResponse {
	if loc == nil {
		loc = time.UTC
	}
	steps := make([]PlanStepDTO, 0, len(p.Steps))
	for _, s := range p.Steps {
		end := s.End().In(loc)
		steps = append(steps, PlanStepDTO{
			Transition:     s.Entry.Transition.Key(),
			BaseSeconds:    s.Entry.BaseSeconds,
			ReducedSeconds: s.Result.ReducedSeconds,
			Duration:       s.Result.Breakdown.String(),
			Start:          s.Start().In(loc),
			End:            end,
			EndDisplay:     format.Instant(end),
		})
	}
	end := p.End.In(loc)
	return PlanResponse{
		Building:       string(p.Building),
		From:           p.FromLevel,
		To:             p.ToLevel,
		Steps:          steps,
		BaseSeconds:    p.BaseSeconds,
		ReducedSeconds: p.ReducedSeconds,
		Duration:       p.Breakdown().String(),
		Costs:          CostsToDTO(p.Costs),
		Start:          p.Start.In(loc),
		End:            end,
		EndDisplay:     format.Instant(end),
	}
}

// PlanAcceleration extracts the speed bonuses from a plan request
func PlanAcceleration(req PlanRequest) models.Acceleration {
	return models.Acceleration{
		SelfSpeedPercent:  req.SelfSpeedPercent,
		BonusSpeedPercent: req.BonusSpeedPercent,
	}
}

// RequestAcceleration extracts the speed bonuses from a request
func RequestAcceleration(req CalculateRequest) models.Acceleration {
	return models.Acceleration{
		SelfSpeedPercent:  req.SelfSpeedPercent,
		BonusSpeedPercent: req.BonusSpeedPercent,
	}
}

// ErrorKind classifies err for clients
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return KindNotFound
	case errors.Is(err, models.ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// ErrorToDTO wraps err in the error envelope
func ErrorToDTO(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Kind: ErrorKind(err), Message: err.Error()}}
}
