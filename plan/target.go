package plan

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedTargetMode marks target modes that are declared but not
// implemented.
var ErrUnsupportedTargetMode = errors.New("unsupported target mode")

// ErrTargetUnreachable marks targets the given rate and contribution can
// never reach.
var ErrTargetUnreachable = errors.New("target not reachable")

// TargetMode selects the unknown a back-solve computes.
type TargetMode string

const (
	// TargetAmount solves for the monthly contribution.
	TargetAmount TargetMode = "num"
	// TargetRate would solve for the rate of return. It has never been
	// implemented in this helper; use the annuity solvers instead.
	TargetRate TargetMode = "rate"
)

// maxTargetMonths caps the months-to-target loop at 100 years so that
// non-positive effective growth fails instead of looping forever.
const maxTargetMonths = 1200

// RequiredPayment returns the constant monthly contribution needed to grow
// initial to target over months at monthlyRate per month, derived
// algebraically from the annuity value formula. A target at or below the
// initial balance needs no contribution.
func RequiredPayment(target, monthlyRate float64, months int, initial float64) (float64, error) {
	if target <= 0 {
		return 0, fmt.Errorf("RequiredPayment: target must be positive, got %g", target)
	}
	if months <= 0 {
		return 0, fmt.Errorf("RequiredPayment: months must be positive, got %d", months)
	}
	if target <= initial {
		return 0, nil
	}
	if math.Abs(monthlyRate) < rateEpsilon {
		return (target - initial) / float64(months), nil
	}
	growth := math.Pow(1.0+monthlyRate, float64(months))
	return (target - initial*growth) / ((growth - 1.0) / monthlyRate), nil
}

// SolveContribution dispatches a back-solve on the target-mode tag.
// TargetRate is reported as unsupported: the upstream branch was declared
// but never filled, and guessing a formula here would mask that.
func SolveContribution(mode TargetMode, target, monthlyRate float64, months int, initial float64) (float64, error) {
	switch mode {
	case TargetAmount:
		return RequiredPayment(target, monthlyRate, months, initial)
	case TargetRate:
		return 0, fmt.Errorf("SolveContribution: %w %q (use the annuity rate solvers)", ErrUnsupportedTargetMode, mode)
	default:
		return 0, fmt.Errorf("SolveContribution: unknown target mode %q", mode)
	}
}

// PeriodsToTarget iterates month by month, compounding then contributing,
// until the balance reaches target. It returns the elapsed time as
// fractional years. When the cap trips the failure is explicit rather than
// an endless loop.
func PeriodsToTarget(target, monthlyRate, contribution, initial float64) (float64, error) {
	if target <= 0 {
		return 0, fmt.Errorf("PeriodsToTarget: target must be positive, got %g", target)
	}

	balance := initial
	for month := 0; month <= maxTargetMonths; month++ {
		if balance >= target {
			return float64(month) / 12.0, nil
		}
		balance = balance*(1.0+monthlyRate) + contribution
	}
	return 0, fmt.Errorf("PeriodsToTarget: %w within %d months", ErrTargetUnreachable, maxTargetMonths)
}

// RequiredHorizonYears is the closed-form twin of PeriodsToTarget: the
// number of whole years needed to reach target, from the logarithm of the
// annuity recurrence. Results are rounded up to the next full year.
func RequiredHorizonYears(target, monthlyRate, contribution, initial float64) (int, error) {
	if target <= 0 {
		return 0, fmt.Errorf("RequiredHorizonYears: target must be positive, got %g", target)
	}
	if monthlyRate <= -1 {
		return 0, fmt.Errorf("RequiredHorizonYears: monthly rate must exceed -100%%, got %g", monthlyRate)
	}
	if target <= initial {
		return 0, nil
	}

	var months float64
	if math.Abs(monthlyRate) < rateEpsilon {
		if contribution <= 0 {
			return 0, fmt.Errorf("RequiredHorizonYears: %w without growth or contributions", ErrTargetUnreachable)
		}
		months = (target - initial) / contribution
	} else {
		numerator := target + contribution/monthlyRate
		denominator := initial + contribution/monthlyRate
		if numerator <= 0 || denominator <= 0 {
			return 0, fmt.Errorf("RequiredHorizonYears: %w at rate %g with contribution %g", ErrTargetUnreachable, monthlyRate, contribution)
		}
		months = math.Log(numerator/denominator) / math.Log(1.0+monthlyRate)
	}

	years := math.Ceil(math.Max(0, months/12.0))
	return int(years), nil
}
