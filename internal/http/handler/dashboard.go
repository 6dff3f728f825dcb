package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"augmend/internal/analytics"
	"augmend/internal/dashboard"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

type DashboardService interface {
	Data(ctx context.Context, userID uuid.UUID) (*dashboard.Data, error)
	TodaysFocus(ctx context.Context, userID uuid.UUID) ([]dashboard.FocusItem, error)
	WellnessScore(ctx context.Context, userID uuid.UUID, tf analytics.Timeframe) (*dashboard.Score, error)
	TreatmentProgress(ctx context.Context, userID uuid.UUID) ([]analytics.ProgressPoint, error)
	RecentSessions(ctx context.Context, userID uuid.UUID) ([]dashboard.Session, error)
}

type DashboardHandler struct {
	Svc DashboardService
	Log *logger.Logger
}

func (h *DashboardHandler) Data(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Data(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, d)
}

func (h *DashboardHandler) Focus(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.TodaysFocus(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

// WellnessScore defaults ?timeframe= to daily.
func (h *DashboardHandler) WellnessScore(w http.ResponseWriter, r *http.Request) {
	tf := analytics.Timeframe(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("timeframe"))))
	if tf == "" {
		tf = analytics.Daily
	}
	out, err := h.Svc.WellnessScore(r.Context(), currentUser(r), tf)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

func (h *DashboardHandler) TreatmentProgress(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.TreatmentProgress(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

func (h *DashboardHandler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.RecentSessions(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}
