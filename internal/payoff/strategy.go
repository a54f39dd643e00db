package payoff

import (
	"fmt"
	"sort"

	"budgetwize-api/internal/domain"
)

type Strategy string

const (
	// StrategyAvalanche orders debts by descending interest rate.
	StrategyAvalanche Strategy = "avalanche"
	// StrategySnowball orders debts by ascending current balance.
	StrategySnowball Strategy = "snowball"
	// StrategyHighestPayment orders debts by descending minimum payment.
	StrategyHighestPayment Strategy = "highest-payment"
	// StrategyCustom keeps the input order.
	StrategyCustom Strategy = "custom"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyAvalanche, StrategySnowball, StrategyHighestPayment, StrategyCustom:
		return Strategy(s), nil
	case "":
		return StrategyAvalanche, nil
	default:
		return "", fmt.Errorf("unknown payment strategy %q", s)
	}
}

// Order returns the debts reordered for payoff priority. The sort is
// stable: ties keep their original relative order.
func Order(debts []domain.Debt, strategy Strategy) []domain.Debt {
	out := make([]domain.Debt, len(debts))
	copy(out, debts)

	switch strategy {
	case StrategyAvalanche:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].InterestRate > out[j].InterestRate
		})
	case StrategySnowball:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CurrentBalance < out[j].CurrentBalance
		})
	case StrategyHighestPayment:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MinimumPayment > out[j].MinimumPayment
		})
	case StrategyCustom:
	}

	return out
}

type DebtPlan struct {
	DebtID   string `json:"debt_id"`
	DebtName string `json:"debt_name"`

	Balance        float64 `json:"balance"`
	MonthlyPayment float64 `json:"monthly_payment"`

	MonthsToPayoff int     `json:"months_to_payoff"`
	TotalInterest  float64 `json:"total_interest"`

	// Amortizes is false when the debt's payment does not cover its
	// monthly interest; no schedule exists for it.
	Amortizes bool `json:"amortizes"`

	// PaidOff mirrors Schedule.PaidOff: false when the schedule ran to
	// the planner cap with Remaining still outstanding.
	PaidOff   bool    `json:"paid_off"`
	Remaining float64 `json:"remaining,omitempty"`

	Schedule []ScheduleEntry `json:"schedule,omitempty"`
}

type Plan struct {
	Strategy Strategy   `json:"strategy"`
	Debts    []DebtPlan `json:"debts"`

	TotalBalance        float64 `json:"total_balance"`
	TotalMinimumPayment float64 `json:"total_minimum_payment"`
	TotalExtraPayment   float64 `json:"total_extra_payment"`
}

// BuildPlan orders the debts under the strategy and schedules each debt
// independently with its own minimum plus extra payment. Freed-up payment
// capacity is not rolled onto the next debt once one is paid off; each
// schedule stands alone.
func BuildPlan(debts []domain.Debt, strategy Strategy) Plan {
	plan := Plan{Strategy: strategy}

	for _, d := range debts {
		plan.TotalBalance += d.CurrentBalance
		plan.TotalMinimumPayment += d.MinimumPayment
		if d.ExtraPayment != nil {
			plan.TotalExtraPayment += *d.ExtraPayment
		}
	}

	for _, d := range Order(debts, strategy) {
		dp := DebtPlan{
			DebtID:         d.ID,
			DebtName:       d.Name,
			Balance:        d.CurrentBalance,
			MonthlyPayment: d.MonthlyPayment(),
		}

		schedule, err := Amortize(Input{
			Balance:        d.CurrentBalance,
			MonthlyPayment: dp.MonthlyPayment,
			AnnualRate:     d.InterestRate,
			MaxMonths:      PlannerCap,
		})
		if err == nil {
			dp.Amortizes = true
			dp.MonthsToPayoff = schedule.Months
			dp.TotalInterest = schedule.TotalInterest
			dp.PaidOff = schedule.PaidOff
			dp.Remaining = schedule.Remaining
			dp.Schedule = schedule.Entries
		}

		plan.Debts = append(plan.Debts, dp)
	}

	return plan
}
