package bench

import "github.com/yuanzh/investlib/annuity"

// Preset solve scenarios, ordered from toy to retirement scale.
var Presets = []Scenario{
	{
		Name:     "starter-1k",
		Scenario: annuity.Scenario{Target: 1000, Contribution: 10, Periods: 12},
	},
	{
		Name:     "emergency-fund-20k",
		Scenario: annuity.Scenario{Target: 20_000, Initial: 2_000, Contribution: 400, Periods: 36},
	},
	{
		Name:     "college-fund-80k",
		Scenario: annuity.Scenario{Target: 80_000, Initial: 5_000, Contribution: 300, Periods: 144},
	},
	{
		Name:     "house-deposit-150k",
		Scenario: annuity.Scenario{Target: 150_000, Initial: 10_000, Contribution: 500, Periods: 180},
	},
	{
		Name:     "retirement-5m",
		Scenario: annuity.Scenario{Target: 5_000_000, Contribution: 2000, Periods: 240},
	},
}
