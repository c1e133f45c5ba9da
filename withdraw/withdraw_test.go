package withdraw_test

import (
	"errors"
	"math"
	"testing"

	"github.com/yuanzh/investlib/withdraw"
)

func TestYearsSustained_ZeroReturnBaseline(t *testing.T) {
	t.Parallel()

	// Without growth the balance lasts exactly balance/withdrawal months.
	sim := withdraw.NewSimulation(0)
	res, err := sim.YearsSustained(12_000, 1000)
	if err != nil {
		t.Fatalf("YearsSustained: %v", err)
	}
	if res.Years != 1 || res.Months != 0 {
		t.Fatalf("lasted %dy%dm, want 1y0m", res.Years, res.Months)
	}
	if res.NoInvestYears != 1 || res.NoInvestMonths != 0 {
		t.Fatalf("no-invest baseline %dy%dm, want 1y0m", res.NoInvestYears, res.NoInvestMonths)
	}
}

func TestYearsSustained_GrowthExtendsRunway(t *testing.T) {
	t.Parallel()

	sim := withdraw.NewSimulation(0.10)
	res, err := sim.YearsSustained(100_000, 1000)
	if err != nil {
		t.Fatalf("YearsSustained: %v", err)
	}
	invested := res.Years*12 + res.Months
	if invested <= 100 {
		t.Fatalf("invested runway %d months, want more than the 100-month baseline", invested)
	}
	if len(res.Balances) != invested {
		t.Fatalf("ledger has %d rows, want %d", len(res.Balances), invested)
	}
}

func TestYearsSustained_NeverExhausted(t *testing.T) {
	t.Parallel()

	// Withdrawals below the monthly growth never deplete the balance.
	sim := withdraw.NewSimulation(0.10)
	_, err := sim.YearsSustained(1_000_000, 1000)
	if !errors.Is(err, withdraw.ErrNeverExhausted) {
		t.Fatalf("expected ErrNeverExhausted, got %v", err)
	}
}

func TestYearsSustained_InvalidArguments(t *testing.T) {
	t.Parallel()

	sim := withdraw.NewSimulation(0.05)
	if _, err := sim.YearsSustained(0, 100); err == nil {
		t.Fatalf("expected error for zero balance")
	}
	if _, err := sim.YearsSustained(1000, 0); err == nil {
		t.Fatalf("expected error for zero withdrawal")
	}
}

func TestMonthlyWithdrawal_ZeroRate(t *testing.T) {
	t.Parallel()

	sim := withdraw.NewSimulation(0)
	res, err := sim.MonthlyWithdrawal(120_000, 10)
	if err != nil {
		t.Fatalf("MonthlyWithdrawal: %v", err)
	}
	if math.Abs(res.Monthly-1000) > 1e-9 {
		t.Fatalf("monthly %v, want 1000", res.Monthly)
	}
}

func TestMonthlyWithdrawal_DepletesToZero(t *testing.T) {
	t.Parallel()

	// The closed-form withdrawal drains the balance to ~0 at the horizon.
	sim := withdraw.NewSimulation(0.08)
	res, err := sim.MonthlyWithdrawal(100_000, 20)
	if err != nil {
		t.Fatalf("MonthlyWithdrawal: %v", err)
	}
	if res.Monthly <= 100_000/240.0 {
		t.Fatalf("monthly %v should beat the no-invest baseline %v", res.Monthly, 100_000/240.0)
	}
	// The ledger stops once the balance can no longer cover a withdrawal,
	// leaving less than one payment on the table at the horizon.
	final := res.Balances[len(res.Balances)-1]
	if final < 0 || final >= res.Monthly {
		t.Fatalf("final balance %v, want in [0, %v)", final, res.Monthly)
	}
}

func TestRequiredInitialBalance_InverseOfMonthlyWithdrawal(t *testing.T) {
	t.Parallel()

	sim := withdraw.NewSimulation(0.06)

	funding, err := sim.RequiredInitialBalance(2000, 25)
	if err != nil {
		t.Fatalf("RequiredInitialBalance: %v", err)
	}
	res, err := sim.MonthlyWithdrawal(funding.Initial, 25)
	if err != nil {
		t.Fatalf("MonthlyWithdrawal: %v", err)
	}
	if math.Abs(res.Monthly-2000) > 1e-6 {
		t.Fatalf("round-trip withdrawal %v, want 2000", res.Monthly)
	}
}

func TestRequiredInitialBalance_ZeroRate(t *testing.T) {
	t.Parallel()

	sim := withdraw.NewSimulation(0)
	res, err := sim.RequiredInitialBalance(1000, 10)
	if err != nil {
		t.Fatalf("RequiredInitialBalance: %v", err)
	}
	if res.Initial != 120_000 {
		t.Fatalf("initial %v, want 120000", res.Initial)
	}
	if res.NoInvestInitial != 120_000 {
		t.Fatalf("no-invest baseline %v, want 120000", res.NoInvestInitial)
	}
}
