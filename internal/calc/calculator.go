// Package calc reduces upgrade durations by additive speed bonuses.
//
// The reduced time is base / (1 + sum(speeds)/100), truncated toward zero to
// whole seconds. Every function here is pure: the reference instant is passed
// in, never read from the system clock, so results are reproducible.
package calc

import (
	"fmt"
	"math"
	"time"

	"github.com/napolitain/lastwar-buildtime/internal/models"
)

// SpeedFloorPercent is the total speed at or below which the divisor stops being positive
const SpeedFloorPercent = -100.0

// maxReducedSeconds keeps reference.Add within time.Duration range (~292 years)
const maxReducedSeconds = int64(math.MaxInt64 / int64(time.Second))

// Reduce applies the summed speed percentages to baseSeconds and projects the
// completion instant from reference.
func Reduce(baseSeconds int64, speeds []float64, reference time.Time) (models.CalculationResult, error) {
	if baseSeconds == 0 {
		return models.CalculationResult{}, fmt.Errorf("%w: base duration is zero (unconfigured entry)", models.ErrInvalidInput)
	}
	if baseSeconds < 0 {
		return models.CalculationResult{}, fmt.Errorf("%w: negative base duration %d", models.ErrInvalidInput, baseSeconds)
	}

	total, err := TotalSpeed(speeds)
	if err != nil {
		return models.CalculationResult{}, err
	}

	reduced, err := reducedSeconds(baseSeconds, total)
	if err != nil {
		return models.CalculationResult{}, err
	}

	return models.CalculationResult{
		BaseSeconds:       baseSeconds,
		TotalSpeedPercent: total,
		ReducedSeconds:    reduced,
		SavedSeconds:      baseSeconds - reduced,
		Breakdown:         Decompose(reduced),
		ReferenceInstant:  reference,
		CompletionInstant: reference.Add(time.Duration(reduced) * time.Second),
	}, nil
}

// TotalSpeed sums the percentages, rejecting non-finite values and sums at or below -100%
func TotalSpeed(speeds []float64) (float64, error) {
	total := 0.0
	for i, s := range speeds {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return 0, fmt.Errorf("%w: speed #%d is not a finite number", models.ErrInvalidInput, i+1)
		}
		total += s
	}
	if total <= SpeedFloorPercent {
		return 0, fmt.Errorf("%w: total speed %.2f%% must be above %.0f%%", models.ErrInvalidInput, total, SpeedFloorPercent)
	}
	return total, nil
}

func reducedSeconds(baseSeconds int64, totalPercent float64) (int64, error) {
	effective := float64(baseSeconds) / (1 + totalPercent/100)
	if effective >= float64(maxReducedSeconds) {
		return 0, fmt.Errorf("%w: reduced duration of %.0fs is out of range", models.ErrInvalidInput, effective)
	}
	return int64(math.Trunc(effective)), nil
}

// Decompose splits a seconds count into days, hours, minutes and seconds.
// Recombining with Breakdown.TotalSeconds always returns the input.
func Decompose(total int64) models.Breakdown {
	days := total / 86400
	rem := total % 86400
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	seconds := rem % 60
	return models.Breakdown{Days: days, Hours: hours, Minutes: minutes, Seconds: seconds}
}
