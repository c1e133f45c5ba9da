// Package annuity computes unknown parameters of a periodic-compounding
// annuity: the future value for a known rate, and the per-period rate of
// return for a known future value (two competing solvers).
package annuity

import "math"

// rateEpsilon is the numerical-zero threshold for the periodic rate.
// Below it the closed form divides by a vanishing rate, so the value
// function falls back to the simple-interest limit.
const rateEpsilon = 1e-10

// periodsPerYear fixes the compounding grid: one period per month.
const periodsPerYear = 12

// Scenario holds the known scalar inputs of a rate solve.
type Scenario struct {
	// Target is the desired ending balance.
	Target float64
	// Initial is the starting balance (may be zero).
	Initial float64
	// Contribution is added at the end of every period, after compounding.
	Contribution float64
	// Periods is the number of compounding periods.
	Periods int
}

// FutureValue returns the ending balance of an annuity compounded periods
// times at rate per period, with the contribution added at the end of
// each period.
//
// For |rate| < 1e-10 the closed form degenerates, so the simple-interest
// limit initial + contribution*periods is returned instead. Without this
// branch any solver probing near the origin reads NaN/Inf.
func FutureValue(rate, initial, contribution float64, periods int) float64 {
	if math.Abs(rate) < rateEpsilon {
		return initial + contribution*float64(periods)
	}
	growth := math.Pow(1.0+rate, float64(periods))
	return initial*growth + contribution*(growth-1.0)/rate
}

// futureValue is the Scenario-shaped oracle shared by both solvers.
func (s Scenario) futureValue(rate float64) float64 {
	return FutureValue(rate, s.Initial, s.Contribution, s.Periods)
}

// Annualize converts a per-period (monthly) rate to its annual equivalent.
func Annualize(periodic float64) float64 {
	return math.Pow(1.0+periodic, periodsPerYear) - 1.0
}

// Deannualize is the geometric inverse of Annualize.
func Deannualize(annual float64) float64 {
	return math.Pow(1.0+annual, 1.0/periodsPerYear) - 1.0
}
