package annuity

import (
	"errors"
	"fmt"
	"math"
)

// ErrFlatSecant is returned when the secant slope estimate vanishes,
// the one-dimensional analogue of a singular Jacobian.
var ErrFlatSecant = errors.New("secant slope vanished")

const (
	// secantSeed is the default initial guess, a plausible per-period rate.
	secantSeed = 0.01
	// secantStep offsets the second starting point from the seed.
	secantStep = 1e-4
	// secantMaxIter caps the iteration budget.
	secantMaxIter = 100
	// secantRateTol accepts a step once successive iterates are this close.
	secantRateTol = 1e-12
	// secantValueTolScale sets the residual tolerance relative to the
	// target magnitude: tolerance = scale * max(1, |target|).
	secantValueTolScale = 1e-10
	// secantMinSlope is the smallest usable secant denominator.
	secantMinSlope = 1e-14
)

// SecantResult is the output of SolveRateSecant.
type SecantResult struct {
	// PeriodicRate is the solved rate per period. Unlike the bracketing
	// solver it is never annualized; callers comparing the two must
	// reconcile units first.
	PeriodicRate float64
	// Iterations is the number of secant updates taken.
	Iterations int
	// Residual is |FutureValue(rate) - target| at the returned rate.
	Residual float64
}

// SolveRateSecant finds the per-period rate at which the annuity value
// function meets s.Target, using a derivative-free secant iteration
// (one-dimensional Broyden update) seeded at 0.01 per period.
//
// As a local method it converges to the root nearest its seed's basin;
// for non-monotonic objectives it may find a different root than the
// bracketing solver, or none. Failures are explicit: an exhausted
// iteration budget wraps ErrNotConverged and a vanishing slope estimate
// wraps ErrFlatSecant. The last iterate is populated either way.
func SolveRateSecant(s Scenario) (SecantResult, error) {
	return SolveRateSecantFrom(s, secantSeed)
}

// SolveRateSecantFrom runs the secant iteration from an explicit seed.
func SolveRateSecantFrom(s Scenario, seed float64) (SecantResult, error) {
	if s.Periods <= 0 {
		return SecantResult{}, fmt.Errorf("SolveRateSecant: periods must be positive, got %d", s.Periods)
	}

	valueTol := secantValueTolScale * math.Max(1.0, math.Abs(s.Target))

	objective := func(rate float64) float64 {
		return s.futureValue(rate) - s.Target
	}

	x0 := seed
	x1 := seed + secantStep
	f0 := objective(x0)
	f1 := objective(x1)

	for iter := 1; iter <= secantMaxIter; iter++ {
		if math.Abs(f1) <= valueTol {
			return SecantResult{PeriodicRate: x1, Iterations: iter, Residual: math.Abs(f1)}, nil
		}

		dx := x1 - x0
		if dx == 0 {
			res := SecantResult{PeriodicRate: x1, Iterations: iter, Residual: math.Abs(f1)}
			return res, fmt.Errorf("SolveRateSecant: %w at iteration %d (stalled iterate)", ErrFlatSecant, iter)
		}
		slope := (f1 - f0) / dx
		if math.Abs(slope) < secantMinSlope {
			res := SecantResult{PeriodicRate: x1, Iterations: iter, Residual: math.Abs(f1)}
			return res, fmt.Errorf("SolveRateSecant: %w at iteration %d (rate %g)", ErrFlatSecant, iter, x1)
		}

		x2 := x1 - f1/slope
		x0, f0 = x1, f1
		x1 = x2
		f1 = objective(x1)

		if math.Abs(x1-x0) <= secantRateTol && math.Abs(f1) <= valueTol {
			return SecantResult{PeriodicRate: x1, Iterations: iter, Residual: math.Abs(f1)}, nil
		}
	}

	res := SecantResult{PeriodicRate: x1, Iterations: secantMaxIter, Residual: math.Abs(f1)}
	return res, fmt.Errorf("SolveRateSecant: %w after %d iterations (residual %g)", ErrNotConverged, secantMaxIter, res.Residual)
}
