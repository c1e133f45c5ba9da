package annuity

import (
	"errors"
	"fmt"
)

// ErrNotConverged is returned when a solver exhausts its iteration budget
// before meeting its convergence criterion.
var ErrNotConverged = errors.New("solver did not converge")

// Config holds the bracketing solver's search policy. These were hardcoded
// magic numbers in earlier revisions.
type Config struct {
	// BracketLow is the left edge of the rate bracket (rate > -100%).
	BracketLow float64
	// BracketHigh is the right edge of the rate bracket.
	BracketHigh float64
	// Tolerance bounds both the acceptance test and the final bracket width.
	Tolerance float64
	// MaxIterations caps the bisection loop. Halving the default bracket
	// down to the default tolerance takes ~37 steps, so the default cap
	// only trips on degenerate configurations.
	MaxIterations int
}

// DefaultConfig provides the documented default search policy.
var DefaultConfig = Config{
	BracketLow:    -0.99,
	BracketHigh:   10.0,
	Tolerance:     1e-10,
	MaxIterations: 200,
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	if c.BracketLow == 0 && c.BracketHigh == 0 {
		c.BracketLow = DefaultConfig.BracketLow
		c.BracketHigh = DefaultConfig.BracketHigh
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultConfig.Tolerance
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultConfig.MaxIterations
	}
	return c
}

// BisectionResult is the output of SolveRateBisection.
type BisectionResult struct {
	// PeriodicRate is the solved per-period rate.
	PeriodicRate float64
	// AnnualRate is (1+PeriodicRate)^12 - 1.
	AnnualRate float64
	// Iterations is the number of bisection steps taken.
	Iterations int
	// Converged reports whether the one-sided acceptance test fired.
	// When false, PeriodicRate is the final bracket midpoint: the bracket
	// collapsed below Tolerance without the value test passing, and the
	// caller decides whether that estimate is acceptable.
	Converged bool
}

// SolveRateBisection finds the per-period rate at which the annuity value
// function meets s.Target, by bisection over [cfg.BracketLow, cfg.BracketHigh].
//
// The value function is assumed monotonically increasing in the rate over
// the bracket — true for positive contributions and periods, and a
// precondition the caller must guarantee; the result is undefined otherwise.
//
// The acceptance test is one-sided: a midpoint is accepted when its value
// is at or above the target by less than cfg.Tolerance. If the bracket
// width collapses first, the midpoint is still returned with Converged
// set to false. Only an exhausted iteration budget yields an error (wrapping
// ErrNotConverged), and even then the last estimate is populated.
func SolveRateBisection(s Scenario, cfg Config) (BisectionResult, error) {
	cfg = cfg.withDefaults()
	if s.Periods <= 0 {
		return BisectionResult{}, fmt.Errorf("SolveRateBisection: periods must be positive, got %d", s.Periods)
	}
	if cfg.BracketHigh <= cfg.BracketLow {
		return BisectionResult{}, fmt.Errorf("SolveRateBisection: invalid bracket [%g, %g]", cfg.BracketLow, cfg.BracketHigh)
	}

	left, right := cfg.BracketLow, cfg.BracketHigh

	var iter int
	for right-left > cfg.Tolerance {
		if iter >= cfg.MaxIterations {
			mid := (left + right) / 2
			res := BisectionResult{
				PeriodicRate: mid,
				AnnualRate:   Annualize(mid),
				Iterations:   iter,
			}
			return res, fmt.Errorf("SolveRateBisection: %w after %d iterations (bracket width %g)", ErrNotConverged, iter, right-left)
		}
		iter++

		mid := (left + right) / 2
		finalValue := s.futureValue(mid)

		if finalValue-s.Target < cfg.Tolerance && finalValue >= s.Target {
			return BisectionResult{
				PeriodicRate: mid,
				AnnualRate:   Annualize(mid),
				Iterations:   iter,
				Converged:    true,
			}, nil
		}
		if finalValue < s.Target {
			left = mid
		} else {
			right = mid
		}
	}

	mid := (left + right) / 2
	return BisectionResult{
		PeriodicRate: mid,
		AnnualRate:   Annualize(mid),
		Iterations:   iter,
	}, nil
}
