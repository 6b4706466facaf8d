package calc

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/napolitain/lastwar-buildtime/internal/models"
)

// Default acceleration bounds
const (
	DefaultMaxSelfSpeedPercent = 500.0
)

// DefaultBonusPercents are the discrete values the granted bonus may take
var DefaultBonusPercents = []float64{0, 25, 50}

// Policy bounds the user-supplied Acceleration before it reaches Reduce
type Policy struct {
	MaxSelfSpeedPercent  float64
	AllowedBonusPercents []float64
}

// DefaultPolicy returns a policy allowing self speed in [0, 500] and bonus in {0, 25, 50}
func DefaultPolicy() Policy {
	return Policy{
		MaxSelfSpeedPercent:  DefaultMaxSelfSpeedPercent,
		AllowedBonusPercents: slices.Clone(DefaultBonusPercents),
	}
}

// Validate checks a against the policy
func (p Policy) Validate(a models.Acceleration) error {
	s := a.SelfSpeedPercent
	if math.IsNaN(s) || s < 0 || s > p.MaxSelfSpeedPercent {
		return fmt.Errorf("%w: self speed %v%% must be within [0, %v]", models.ErrInvalidInput, s, p.MaxSelfSpeedPercent)
	}
	if !slices.Contains(p.AllowedBonusPercents, a.BonusSpeedPercent) {
		return fmt.Errorf("%w: bonus speed %v%% is not one of %v", models.ErrInvalidInput, a.BonusSpeedPercent, p.AllowedBonusPercents)
	}
	return nil
}

// ReduceAcceleration validates a and then calls Reduce with its speeds
func (p Policy) ReduceAcceleration(baseSeconds int64, a models.Acceleration, reference time.Time) (models.CalculationResult, error) {
	if err := p.Validate(a); err != nil {
		return models.CalculationResult{}, err
	}
	return Reduce(baseSeconds, a.Speeds(), reference)
}
