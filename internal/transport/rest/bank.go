package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"budgetwize-api/internal/repository"
	"budgetwize-api/internal/service"
	"budgetwize-api/internal/transport/auth"
)

func (h *Handler) createLinkToken(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	token, err := h.bank.CreateLinkToken(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrBankUnavailable) {
			ErrorServiceUnavailable(w, err.Error())
			return
		}
		log.Printf("[HTTP] createLinkToken error: %v", err)
		ErrorInternal(w, "failed to create link token")
		return
	}

	Success(w, "", map[string]interface{}{
		"link_token": token,
	})
}

func (h *Handler) exchangePublicToken(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	var req struct {
		PublicToken string `json:"public_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}
	if req.PublicToken == "" {
		ErrorBadRequest(w, "public_token is required")
		return
	}

	if err := h.bank.LinkAccount(r.Context(), userID, req.PublicToken); err != nil {
		if errors.Is(err, service.ErrBankUnavailable) {
			ErrorServiceUnavailable(w, err.Error())
			return
		}
		log.Printf("[HTTP] exchangePublicToken error: %v", err)
		ErrorInternal(w, "failed to link bank account")
		return
	}

	Success(w, "Bank account linked", nil)
}

func (h *Handler) listBankAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	accounts, err := h.bank.Accounts(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoLinkedItem) {
			ErrorNotFound(w, "no linked bank account")
			return
		}
		if errors.Is(err, service.ErrBankUnavailable) {
			ErrorServiceUnavailable(w, err.Error())
			return
		}
		log.Printf("[HTTP] listBankAccounts error: %v", err)
		ErrorInternal(w, "failed to get accounts")
		return
	}

	Success(w, "", accounts)
}

func (h *Handler) listBankTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ErrorBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	transactions, err := h.bank.StoredTransactions(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[HTTP] listBankTransactions error: %v", err)
		ErrorInternal(w, "failed to get transactions")
		return
	}

	Success(w, "", transactions)
}

func (h *Handler) syncBankTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	count, err := h.bank.SyncTransactions(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoLinkedItem) {
			ErrorNotFound(w, "no linked bank account")
			return
		}
		if errors.Is(err, service.ErrBankUnavailable) {
			ErrorServiceUnavailable(w, err.Error())
			return
		}
		log.Printf("[HTTP] syncBankTransactions error: %v", err)
		ErrorInternal(w, "failed to sync transactions")
		return
	}

	Success(w, "Transactions synced", map[string]interface{}{
		"synced": count,
	})
}
