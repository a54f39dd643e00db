package rest

import (
	"log"
	"net/http"

	"budgetwize-api/internal/payoff"
	"budgetwize-api/internal/transport/auth"
)

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	strategyName := r.URL.Query().Get("strategy")
	if _, err := payoff.ParseStrategy(strategyName); err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	plan, err := h.debts.Plan(r.Context(), userID, strategyName)
	if err != nil {
		log.Printf("[HTTP] getPlan error: %v", err)
		ErrorInternal(w, "failed to build payoff plan")
		return
	}

	Success(w, "", plan)
}
