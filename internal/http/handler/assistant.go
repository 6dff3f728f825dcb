package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"augmend/internal/assistant"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

type AssistantService interface {
	ProcessMessage(ctx context.Context, userID uuid.UUID, text string) (assistant.Reply, error)
	SuggestedQuestions(ctx context.Context) []string
	History(ctx context.Context, userID uuid.UUID) ([]assistant.Message, error)
}

type AssistantHandler struct {
	Svc AssistantService
	Log *logger.Logger
}

type chatReq struct {
	Message string `json:"message"`
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	reply, err := h.Svc.ProcessMessage(r.Context(), currentUser(r), req.Message)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, reply)
}

func (h *AssistantHandler) SuggestedQuestions(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.Svc.SuggestedQuestions(r.Context()))
}

func (h *AssistantHandler) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Svc.History(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, msgs)
}
