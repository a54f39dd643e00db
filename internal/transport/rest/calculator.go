package rest

import (
	"errors"
	"log"
	"net/http"

	"budgetwize-api/internal/payoff"
)

func (h *Handler) calculatePayoff(w http.ResponseWriter, r *http.Request) {
	req, err := ValidateCalculatorRequest(r)
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			ErrorBadRequest(w, err.Error())
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	schedule, err := h.calculator.Payoff(req.Balance, req.MonthlyPayment, req.AnnualRate, req.RecurringExpenses)
	if err != nil {
		switch {
		case errors.Is(err, payoff.ErrPaymentTooLow),
			errors.Is(err, payoff.ErrInvalidBalance),
			errors.Is(err, payoff.ErrInvalidPayment),
			errors.Is(err, payoff.ErrInvalidRate),
			errors.Is(err, payoff.ErrInvalidAddOn):
			ErrorBadRequest(w, err.Error())
		default:
			log.Printf("[HTTP] calculatePayoff error: %v", err)
			ErrorInternal(w, "failed to calculate payoff")
		}
		return
	}

	Success(w, "", schedule)
}
