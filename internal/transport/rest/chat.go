package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/lingua-cards/internal/domain"
	"github.com/heartmarshall/lingua-cards/internal/service/chat"
)

type chatService interface {
	Scenarios(lang domain.Language) ([]chat.ScenarioInfo, error)
	Reply(ctx context.Context, in chat.ReplyInput) (*chat.Reply, error)
}

// ChatHandler serves conversation practice.
type ChatHandler struct {
	svc chatService
	log *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(svc chatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: logger.With("handler", "chat")}
}

type chatRequest struct {
	Lang     domain.Language   `json:"lang"`
	Scenario domain.Scenario   `json:"scenario"`
	History  []domain.ChatTurn `json:"history"`
	Message  string            `json:"message"`
}

// Scenarios handles GET /api/chat/{lang}/scenarios.
func (h *ChatHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Scenarios(domain.Language(r.PathValue("lang")))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": list})
}

// Reply handles POST /api/chat.
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.svc.Reply(r.Context(), chat.ReplyInput{
		Lang:     req.Lang,
		Scenario: req.Scenario,
		History:  req.History,
		Message:  req.Message,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
