// Package bench drives both rate solvers over a fixed scenario sequence,
// times each call, and renders the results side by side. It asserts no
// correctness property itself; agreement checking lives in the test suite.
package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yuanzh/investlib/annuity"
)

// Scenario is a named solver input.
type Scenario struct {
	Name string
	annuity.Scenario
}

// Comparison holds both solvers' outputs and timings for one scenario.
//
// The bracketing result carries an annualized rate while the secant result
// is raw per-period; readers comparing the two must match units first.
type Comparison struct {
	Scenario Scenario

	Bisection     annuity.BisectionResult
	BisectionErr  error
	BisectionTime time.Duration

	Secant     annuity.SecantResult
	SecantErr  error
	SecantTime time.Duration
}

// Run invokes both solvers with identical inputs per scenario, measuring
// wall-clock duration per call.
func Run(scenarios []Scenario) []Comparison {
	comps := make([]Comparison, 0, len(scenarios))
	for _, s := range scenarios {
		c := Comparison{Scenario: s}

		start := time.Now()
		c.Bisection, c.BisectionErr = annuity.SolveRateBisection(s.Scenario, annuity.Config{})
		c.BisectionTime = time.Since(start)

		start = time.Now()
		c.Secant, c.SecantErr = annuity.SolveRateSecant(s.Scenario)
		c.SecantTime = time.Since(start)

		comps = append(comps, c)
	}
	return comps
}

// Report writes the comparison results to w, monetary values to 2 decimals
// and rates to 6 decimals.
func Report(w io.Writer, comps []Comparison) {
	for _, c := range comps {
		fmt.Fprintf(w, "%-20s target=%s pmt=%s n=%d\n",
			c.Scenario.Name, money(c.Scenario.Target), money(c.Scenario.Contribution), c.Scenario.Periods)

		if c.BisectionErr != nil {
			fmt.Fprintf(w, "  bisection  error: %v (%s)\n", c.BisectionErr, c.BisectionTime)
		} else {
			fmt.Fprintf(w, "  bisection  period=%s annual=%s iter=%d (%s)\n",
				rate(c.Bisection.PeriodicRate), rate(c.Bisection.AnnualRate), c.Bisection.Iterations, c.BisectionTime)
		}

		if c.SecantErr != nil {
			fmt.Fprintf(w, "  secant     error: %v (%s)\n", c.SecantErr, c.SecantTime)
		} else {
			fmt.Fprintf(w, "  secant     period=%s iter=%d (%s)\n",
				rate(c.Secant.PeriodicRate), c.Secant.Iterations, c.SecantTime)
		}
	}
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func rate(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(6)
}
