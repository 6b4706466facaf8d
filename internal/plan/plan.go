// Package plan schedules a run of consecutive upgrades of one building on a
// single construction queue.
package plan

import (
	"fmt"
	"time"

	"github.com/napolitain/lastwar-buildtime/internal/calc"
	"github.com/napolitain/lastwar-buildtime/internal/catalog"
	"github.com/napolitain/lastwar-buildtime/internal/models"
)

// Step is one scheduled upgrade. Result.ReferenceInstant is when it starts
// and Result.CompletionInstant when it ends.
type Step struct {
	Entry  models.BuildingLevelEntry
	Result models.CalculationResult
}

func (s Step) Start() time.Time { return s.Result.ReferenceInstant }
func (s Step) End() time.Time   { return s.Result.CompletionInstant }

// Plan is the timeline from FromLevel to ToLevel
type Plan struct {
	Building       models.BuildingID
	FromLevel      int
	ToLevel        int
	Steps          []Step
	BaseSeconds    int64
	ReducedSeconds int64
	Costs          models.Costs
	Start          time.Time
	End            time.Time
}

// Breakdown splits the queue time of the whole plan
func (p Plan) Breakdown() models.Breakdown {
	return calc.Decompose(p.ReducedSeconds)
}

// Planner chains catalog rows into plans
type Planner struct {
	catalog *catalog.Catalog
	policy  calc.Policy
}

func NewPlanner(cat *catalog.Catalog, policy calc.Policy) *Planner {
	return &Planner{catalog: cat, policy: policy}
}

// Plan schedules every upgrade of id from level from to level to, back to
// back from start. Each step is reduced and truncated on its own, so the
// plan total can be a few seconds shorter than reducing the summed base.
// Where rows overlap the one reaching furthest without passing to is used.
func (p *Planner) Plan(id models.BuildingID, from, to int, acc models.Acceleration, start time.Time) (Plan, error) {
	if from < 0 || to <= from {
		return Plan{}, fmt.Errorf("%w: plan must go from a level to a higher one (got %d → %d)", models.ErrInvalidInput, from, to)
	}
	if err := p.policy.Validate(acc); err != nil {
		return Plan{}, err
	}

	entries, err := p.catalog.Entries(id)
	if err != nil {
		return Plan{}, err
	}
	next := make(map[int]models.BuildingLevelEntry)
	for _, e := range entries {
		if e.Transition.To > to {
			continue
		}
		if cur, ok := next[e.Transition.From]; !ok || e.Transition.To > cur.Transition.To {
			next[e.Transition.From] = e
		}
	}

	plan := Plan{Building: id, FromLevel: from, ToLevel: to, Start: start, End: start}
	for level := from; level < to; {
		e, ok := next[level]
		if !ok {
			return Plan{}, fmt.Errorf("%w: building %q has no upgrade from level %d", models.ErrNotFound, id, level)
		}
		result, err := calc.Reduce(e.BaseSeconds, acc.Speeds(), plan.End)
		if err != nil {
			return Plan{}, fmt.Errorf("upgrade %s: %w", e.Transition.Key(), err)
		}

		plan.Steps = append(plan.Steps, Step{Entry: e, Result: result})
		plan.BaseSeconds += e.BaseSeconds
		plan.ReducedSeconds += result.ReducedSeconds
		plan.Costs = plan.Costs.Add(e.Costs)
		plan.End = result.CompletionInstant
		level = e.Transition.To
	}
	return plan, nil
}
