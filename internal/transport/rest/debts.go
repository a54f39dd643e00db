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

func (h *Handler) listDebts(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	debts, err := h.debts.ListDebts(r.Context(), userID)
	if err != nil {
		log.Printf("[HTTP] listDebts error: %v", err)
		ErrorInternal(w, "failed to get debts")
		return
	}

	Success(w, "", debts)
}

func (h *Handler) createDebt(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	req, err := ValidateDebtRequest(r)
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			ErrorBadRequest(w, err.Error())
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	debt, err := h.debts.CreateDebt(r.Context(), domain.Debt{
		UserID:         userID,
		Name:           req.Name,
		Balance:        req.Balance,
		InterestRate:   req.InterestRate,
		MinimumPayment: req.MinimumPayment,
		ExtraPayment:   req.ExtraPayment,
		DueDate:        req.DueDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidDebt) {
			ErrorBadRequest(w, err.Error())
			return
		}
		log.Printf("[HTTP] createDebt error: %v", err)
		ErrorInternal(w, "failed to create debt")
		return
	}

	SuccessCreated(w, "Debt created", debt)
}

func (h *Handler) deleteDebt(w http.ResponseWriter, r *http.Request) {
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

	if err := h.debts.DeleteDebt(r.Context(), userID, debtID); err != nil {
		if errors.Is(err, repository.ErrDebtNotFound) {
			ErrorNotFound(w, "debt not found")
			return
		}
		log.Printf("[HTTP] deleteDebt error: %v", err)
		ErrorInternal(w, "failed to delete debt")
		return
	}

	Success(w, "Debt deleted", nil)
}
