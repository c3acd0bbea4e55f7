package handlers

import (
	"context"

	"github.com/janhq/amo-server/internal/domain/assistant"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/amo-server/internal/interfaces/httpserver/responses"
)

// ChatHandler relays text conversations.
type ChatHandler struct {
	service assistant.Service
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service assistant.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// Chat forwards the conversation and echoes the session ID.
func (h *ChatHandler) Chat(ctx context.Context, req *requests.ChatRequest) (*responses.ChatResponse, error) {
	reply, err := h.service.Chat(ctx, assistant.ChatRequest{Turns: req.Messages})
	if err != nil {
		return nil, err
	}
	var sessionID string
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	return &responses.ChatResponse{Message: reply, SessionID: sessionID}, nil
}
