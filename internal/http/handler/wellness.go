package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
	"augmend/internal/wellness"
)

type WellnessService interface {
	RecordMood(ctx context.Context, userID uuid.UUID, mood string) (*wellness.MoodEntry, error)
	RecordBreathingSession(ctx context.Context, userID uuid.UUID, duration, breaths int) (*wellness.BreathingSession, error)
	RecentMoods(ctx context.Context, userID uuid.UUID) ([]wellness.MoodEntry, error)
	BreathingStats(ctx context.Context, userID uuid.UUID) (wellness.BreathingStats, error)
}

type WellnessHandler struct {
	Svc WellnessService
	Log *logger.Logger
}

type moodReq struct {
	Mood string `json:"mood"`
}

type breathingReq struct {
	Duration         int `json:"duration"`
	CompletedBreaths int `json:"completedBreaths"`
}

func (h *WellnessHandler) RecordMood(w http.ResponseWriter, r *http.Request) {
	var req moodReq
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	m, err := h.Svc.RecordMood(r.Context(), currentUser(r), req.Mood)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.Created(w, m)
}

func (h *WellnessHandler) RecordBreathing(w http.ResponseWriter, r *http.Request) {
	var req breathingReq
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	b, err := h.Svc.RecordBreathingSession(r.Context(), currentUser(r), req.Duration, req.CompletedBreaths)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.Created(w, b)
}

func (h *WellnessHandler) RecentMoods(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.RecentMoods(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

func (h *WellnessHandler) BreathingStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.BreathingStats(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}
