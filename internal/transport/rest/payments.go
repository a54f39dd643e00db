package rest

import (
	"errors"
	"log"
	"net/http"

	"budgetwize-api/internal/domain"
	"budgetwize-api/internal/repository"
	"budgetwize-api/internal/service"
	"budgetwize-api/internal/transport/auth"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) logPayment(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	req, err := ValidatePaymentRequest(r)
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			ErrorBadRequest(w, err.Error())
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	payment, err := h.payments.LogPayment(r.Context(), domain.Payment{
		DebtID: req.DebtID,
		UserID: userID,
		Amount: req.Amount,
		Date:   req.Date,
		Notes:  req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPayment):
			ErrorBadRequest(w, err.Error())
		case errors.Is(err, repository.ErrDebtNotFound):
			ErrorNotFound(w, "debt not found")
		case errors.Is(err, repository.ErrDuplicatePayment):
			ErrorConflict(w, err.Error())
		default:
			log.Printf("[HTTP] logPayment error: %v", err)
			ErrorInternal(w, "failed to log payment")
		}
		return
	}

	SuccessCreated(w, "Payment logged", payment)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	debtID := chi.URLParam(r, "debt_id")
	if debtID == "" {
		ErrorBadRequest(w, "debt_id is required")
		return
	}

	payments, err := h.payments.ListPayments(r.Context(), userID, debtID)
	if err != nil {
		if errors.Is(err, repository.ErrDebtNotFound) {
			ErrorNotFound(w, "debt not found")
			return
		}
		log.Printf("[HTTP] listPayments error: %v", err)
		ErrorInternal(w, "failed to get payments")
		return
	}

	Success(w, "", payments)
}
