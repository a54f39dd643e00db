package payoff

import (
	"errors"
	"math"
)

const (
	// CalculatorCap bounds the standalone calculator's schedule length.
	CalculatorCap = 600
	// PlannerCap bounds per-debt schedules inside a payment plan.
	PlannerCap = 1000
)

var (
	ErrInvalidBalance = errors.New("balance must be a non-negative number")
	ErrInvalidPayment = errors.New("monthly payment must be a positive number")
	ErrInvalidRate    = errors.New("interest rate must be a non-negative number")
	ErrInvalidAddOn   = errors.New("recurring monthly expense must be a non-negative number")

	// ErrPaymentTooLow means the payment does not cover accruing interest:
	// the balance would never reach zero. Surfaced before the loop runs.
	ErrPaymentTooLow = errors.New("monthly payment is too low to pay off the debt")
)

type Input struct {
	Balance        float64
	MonthlyPayment float64
	AnnualRate     float64

	// RecurringAddOn is added to the balance at the start of every month,
	// before interest accrues. The planner leaves it at zero.
	RecurringAddOn float64

	// MaxMonths caps the schedule; CalculatorCap is used when zero.
	MaxMonths int
}

type ScheduleEntry struct {
	Month          int     `json:"month"`
	Payment        float64 `json:"payment"`
	Principal      float64 `json:"principal"`
	Interest       float64 `json:"interest"`
	RecurringAddOn float64 `json:"recurring_add_on,omitempty"`
	Remaining      float64 `json:"remaining"`
}

type Schedule struct {
	Entries       []ScheduleEntry `json:"entries"`
	Months        int             `json:"months"`
	TotalInterest float64         `json:"total_interest"`

	// PaidOff is false when the iteration cap was hit with a balance still
	// outstanding. Callers must report that as "does not converge", not
	// truncate it silently.
	PaidOff   bool    `json:"paid_off"`
	Remaining float64 `json:"remaining"`
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Amortize produces a month-by-month payoff schedule for in. It either
// completes or runs to the iteration cap; all usage errors are rejected
// up front.
func Amortize(in Input) (Schedule, error) {
	if !validNumber(in.Balance) || in.Balance < 0 {
		return Schedule{}, ErrInvalidBalance
	}
	if !validNumber(in.MonthlyPayment) || in.MonthlyPayment <= 0 {
		return Schedule{}, ErrInvalidPayment
	}
	if !validNumber(in.AnnualRate) || in.AnnualRate < 0 {
		return Schedule{}, ErrInvalidRate
	}
	if !validNumber(in.RecurringAddOn) || in.RecurringAddOn < 0 {
		return Schedule{}, ErrInvalidAddOn
	}

	monthlyRate := in.AnnualRate / 12 / 100
	if in.AnnualRate > 0 && in.MonthlyPayment <= (in.Balance+in.RecurringAddOn)*monthlyRate {
		return Schedule{}, ErrPaymentTooLow
	}

	cap := in.MaxMonths
	if cap <= 0 {
		cap = CalculatorCap
	}

	s := Schedule{}
	balance := in.Balance

	for balance > 0 && s.Months < cap {
		balance += in.RecurringAddOn

		interest := balance * monthlyRate
		principal := in.MonthlyPayment - interest
		balance -= principal

		s.Months++
		s.TotalInterest += interest
		s.Entries = append(s.Entries, ScheduleEntry{
			Month:          s.Months,
			Payment:        in.MonthlyPayment,
			Principal:      principal,
			Interest:       interest,
			RecurringAddOn: in.RecurringAddOn,
			Remaining:      math.Max(0, balance),
		})
	}

	s.PaidOff = balance <= 0
	if !s.PaidOff {
		s.Remaining = balance
	}

	return s, nil
}
