package service

import "budgetwize-api/internal/payoff"

// CalculatorService backs the standalone payoff calculator: a synthetic
// balance/payment/APR triple plus optional recurring monthly expenses,
// capped at 600 months.
type CalculatorService struct{}

func NewCalculatorService() *CalculatorService {
	return &CalculatorService{}
}

func (s *CalculatorService) Payoff(balance, monthlyPayment, annualRate, recurringExpenses float64) (payoff.Schedule, error) {
	return payoff.Amortize(payoff.Input{
		Balance:        balance,
		MonthlyPayment: monthlyPayment,
		AnnualRate:     annualRate,
		RecurringAddOn: recurringExpenses,
		MaxMonths:      payoff.CalculatorCap,
	})
}
