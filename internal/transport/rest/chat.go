package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"budgetwize-api/internal/transport/auth"
)

func (h *Handler) askChat(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Unauthorized")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}
	if req.Message == "" {
		ErrorBadRequest(w, "message is required")
		return
	}

	answer, err := h.chat.Ask(r.Context(), userID, req.Message)
	if err != nil {
		log.Printf("[HTTP] askChat error: %v", err)
		ErrorInternal(w, "failed to get advisor response")
		return
	}

	Success(w, "", map[string]interface{}{
		"response": answer,
	})
}
