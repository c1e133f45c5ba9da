package plan

import "fmt"

// Projection describes a recurring monthly investment plan with an optional
// annual step-up of the contribution.
type Projection struct {
	// AnnualReturn is the expected yearly return as a decimal (0.1 = 10%).
	AnnualReturn float64
	// HorizonYears is the investment horizon in years.
	HorizonYears int
	// MonthlyContribution is invested every month.
	MonthlyContribution float64
	// InitialBalance is the starting balance.
	InitialBalance float64
	// Method converts AnnualReturn to a monthly rate. Empty means Geometric.
	Method RateMethod
	// Increment is added to the monthly contribution once per anniversary.
	Increment float64
	// IncrementYears bounds how many years the step-up applies.
	IncrementYears int
}

// MonthPoint is one row of the projection ledger. Index 0 is the starting
// state; index i is the state after i contributed months.
type MonthPoint struct {
	Month        int
	Contribution float64
	Principal    float64
	Return       float64
	Balance      float64
}

// ProjectionResult is the output of Project.
type ProjectionResult struct {
	FinalBalance   float64
	TotalPrincipal float64
	TotalReturn    float64
	Monthly        []MonthPoint
}

func (p Projection) validate() error {
	if p.AnnualReturn < 0 {
		return fmt.Errorf("Projection: annual return cannot be negative, got %g", p.AnnualReturn)
	}
	if p.HorizonYears <= 0 {
		return fmt.Errorf("Projection: horizon must be positive, got %d", p.HorizonYears)
	}
	if p.MonthlyContribution < 0 {
		return fmt.Errorf("Projection: monthly contribution cannot be negative, got %g", p.MonthlyContribution)
	}
	if p.InitialBalance < 0 {
		return fmt.Errorf("Projection: initial balance cannot be negative, got %g", p.InitialBalance)
	}
	if p.IncrementYears < 0 {
		return fmt.Errorf("Projection: increment period cannot be negative, got %d", p.IncrementYears)
	}
	return nil
}

// Project simulates the plan month by month: each month the balance
// compounds once and the (possibly stepped-up) contribution is added.
//
// The step-up fires on anniversary months only: never in year zero, and
// only while the elapsed year count is within IncrementYears. With a zero
// Increment the final balance equals the closed-form annuity value for the
// same monthly rate and month count.
func (p Projection) Project() (ProjectionResult, error) {
	if err := p.validate(); err != nil {
		return ProjectionResult{}, err
	}

	method := p.Method
	if method == "" {
		method = Geometric
	}
	rate, err := MonthlyRate(p.AnnualReturn, method)
	if err != nil {
		return ProjectionResult{}, err
	}

	months := p.HorizonYears * 12
	contribution := p.MonthlyContribution
	balance := p.InitialBalance
	principal := p.InitialBalance

	ledger := make([]MonthPoint, 0, months+1)
	ledger = append(ledger, MonthPoint{
		Contribution: p.InitialBalance,
		Principal:    p.InitialBalance,
		Balance:      p.InitialBalance,
	})

	for i := 0; i < months; i++ {
		year := i / 12
		if i%12 == 0 && p.Increment != 0 && year != 0 && year <= p.IncrementYears {
			contribution += p.Increment
		}

		balance = balance*(1.0+rate) + contribution
		principal += contribution
		ledger = append(ledger, MonthPoint{
			Month:        i + 1,
			Contribution: contribution,
			Principal:    principal,
			Return:       balance - principal,
			Balance:      balance,
		})
	}

	return ProjectionResult{
		FinalBalance:   balance,
		TotalPrincipal: principal,
		TotalReturn:    balance - principal,
		Monthly:        ledger,
	}, nil
}
