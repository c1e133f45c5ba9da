// Package plan projects recurring-investment balances forward and
// back-solves the contribution or horizon needed to reach a target amount.
package plan

import (
	"fmt"
	"math"
)

// rateEpsilon guards every formula with a rate-sized denominator.
const rateEpsilon = 1e-10

// RateMethod selects how an annual return maps to a monthly one.
type RateMethod string

const (
	// Geometric compounds: (1+annual)^(1/12) - 1.
	Geometric RateMethod = "geometric"
	// Arithmetic divides: annual / 12.
	Arithmetic RateMethod = "arithmetic"
)

// MonthlyRate converts an annual return to its monthly equivalent.
// Any method other than Geometric or Arithmetic is an invalid argument.
func MonthlyRate(annual float64, method RateMethod) (float64, error) {
	switch method {
	case Geometric:
		return math.Pow(1.0+annual, 1.0/12.0) - 1.0, nil
	case Arithmetic:
		return annual / 12.0, nil
	default:
		return 0, fmt.Errorf("MonthlyRate: unsupported method %q", method)
	}
}
