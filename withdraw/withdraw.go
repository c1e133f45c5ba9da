// Package withdraw simulates drawing a fixed monthly amount from an
// invested balance: how long a balance lasts, how much it supports, and
// how much a withdrawal plan needs up front.
package withdraw

import (
	"errors"
	"fmt"
	"math"
)

// rateEpsilon guards the closed forms against a vanishing monthly rate.
const rateEpsilon = 1e-10

// maxSustainMonths caps the exhaustion loop at 100 years. When withdrawals
// never outpace growth the balance lasts forever and the loop would not
// terminate.
const maxSustainMonths = 1200

// ErrNeverExhausted is returned when growth sustains the withdrawals past
// the simulation cap.
var ErrNeverExhausted = errors.New("balance outlives the simulation cap")

// Simulation evaluates withdrawal plans at a fixed expected return.
type Simulation struct {
	// AnnualReturn is the expected yearly return as a decimal.
	AnnualReturn float64
	// monthlyRate is the geometric monthly equivalent.
	monthlyRate float64
}

// NewSimulation builds a Simulation from an expected annual return,
// converted geometrically to a monthly rate.
func NewSimulation(annualReturn float64) Simulation {
	return Simulation{
		AnnualReturn: annualReturn,
		monthlyRate:  math.Pow(1.0+annualReturn, 1.0/12.0) - 1.0,
	}
}

// MonthlyRate exposes the geometric monthly rate in use.
func (s Simulation) MonthlyRate() float64 { return s.monthlyRate }

// SustainResult is the output of YearsSustained.
type SustainResult struct {
	// Years and Months is how long the balance lasted.
	Years  int
	Months int
	// NoInvestYears/NoInvestMonths is the uninvested baseline
	// (balance divided by the withdrawal).
	NoInvestYears  int
	NoInvestMonths int
	// Balances is the month-end balance ledger.
	Balances []float64
}

// YearsSustained simulates monthly compounding and withdrawal until the
// balance can no longer cover a withdrawal, and reports how long it lasted.
func (s Simulation) YearsSustained(initial, monthlyWithdrawal float64) (SustainResult, error) {
	if initial <= 0 || monthlyWithdrawal <= 0 {
		return SustainResult{}, fmt.Errorf("YearsSustained: initial balance and monthly withdrawal must be positive")
	}

	balance := initial
	balances := make([]float64, 0, 64)
	months := 0

	for balance-monthlyWithdrawal > 0 {
		if months >= maxSustainMonths {
			return SustainResult{}, fmt.Errorf("YearsSustained: %w (%d months)", ErrNeverExhausted, maxSustainMonths)
		}
		balance = balance*(1.0+s.monthlyRate) - monthlyWithdrawal
		balances = append(balances, balance)
		months++
	}

	noInvest := int(initial / monthlyWithdrawal)
	return SustainResult{
		Years:          months / 12,
		Months:         months % 12,
		NoInvestYears:  noInvest / 12,
		NoInvestMonths: noInvest % 12,
		Balances:       balances,
	}, nil
}

// WithdrawalResult is the output of MonthlyWithdrawal.
type WithdrawalResult struct {
	// Monthly is the sustainable monthly withdrawal.
	Monthly float64
	// NoInvestMonthly is the uninvested baseline (balance / months).
	NoInvestMonthly float64
	// Balances is the month-end balance ledger.
	Balances []float64
}

// MonthlyWithdrawal returns the constant monthly amount an initial balance
// supports for the given number of years, from the present-value annuity
// closed form.
func (s Simulation) MonthlyWithdrawal(initial, years float64) (WithdrawalResult, error) {
	if initial <= 0 || years <= 0 {
		return WithdrawalResult{}, fmt.Errorf("MonthlyWithdrawal: initial balance and years must be positive")
	}

	months := int(years * 12)
	var monthly float64
	if math.Abs(s.monthlyRate) < rateEpsilon {
		monthly = initial / float64(months)
	} else {
		monthly = initial * s.monthlyRate / (1.0 - math.Pow(1.0+s.monthlyRate, -float64(months)))
	}

	balance := initial
	balances := make([]float64, 0, months)
	for i := 0; i < months; i++ {
		if balance-monthly < 0 {
			break
		}
		balance = balance*(1.0+s.monthlyRate) - monthly
		balances = append(balances, balance)
	}

	return WithdrawalResult{
		Monthly:         monthly,
		NoInvestMonthly: initial / float64(months),
		Balances:        balances,
	}, nil
}

// FundingResult is the output of RequiredInitialBalance.
type FundingResult struct {
	// Initial is the balance needed up front.
	Initial float64
	// NoInvestInitial is the uninvested baseline (withdrawal * months).
	NoInvestInitial float64
	// Balances is the month-end balance ledger.
	Balances []float64
}

// RequiredInitialBalance returns the balance needed today to support the
// given monthly withdrawal for the given number of years.
func (s Simulation) RequiredInitialBalance(monthlyWithdrawal, years float64) (FundingResult, error) {
	if monthlyWithdrawal <= 0 || years <= 0 {
		return FundingResult{}, fmt.Errorf("RequiredInitialBalance: monthly withdrawal and years must be positive")
	}

	months := int(years * 12)
	var initial float64
	if math.Abs(s.monthlyRate) < rateEpsilon {
		initial = monthlyWithdrawal * float64(months)
	} else {
		initial = monthlyWithdrawal * (1.0 - math.Pow(1.0+s.monthlyRate, -float64(months))) / s.monthlyRate
	}

	balance := initial
	balances := make([]float64, 0, months)
	for i := 0; i < months; i++ {
		balance = balance*(1.0+s.monthlyRate) - monthlyWithdrawal
		balances = append(balances, balance)
	}

	return FundingResult{
		Initial:         initial,
		NoInvestInitial: monthlyWithdrawal * float64(months),
		Balances:        balances,
	}, nil
}
