package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"copilot/internal/domain/chat"
	"copilot/internal/domain/user"
)

type ChatHandler struct {
	chat *chat.Service
}

func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

type askRequest struct {
	Question string `json:"question"`
}

// HandleChat serves the raw grounding context on GET and answers a
// question on POST.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		chatCtx, err := h.chat.BuildContext(r.Context(), user.DefaultUserID, "")
		if err != nil {
			log.Printf("Error building chat context: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to build context")
			return
		}
		respondJSON(w, http.StatusOK, chatCtx)

	case http.MethodPost:
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			respondError(w, http.StatusBadRequest, "question is required")
			return
		}

		answer, err := h.chat.Ask(r.Context(), user.DefaultUserID, req.Question)
		if err != nil {
			log.Printf("Error answering question: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to answer question")
			return
		}
		respondJSON(w, http.StatusOK, answer)

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
