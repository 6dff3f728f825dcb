package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"augmend/internal/achievement"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

type AchievementService interface {
	List(ctx context.Context) ([]achievement.Achievement, error)
	ListByCategory(ctx context.Context, cat achievement.Category) ([]achievement.Achievement, error)
	Get(ctx context.Context, id uuid.UUID) (*achievement.Achievement, error)
	Create(ctx context.Context, in achievement.Input) (*achievement.Achievement, error)
	Update(ctx context.Context, id uuid.UUID, in achievement.Input) (*achievement.Achievement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UserAchievements(ctx context.Context, userID uuid.UUID) ([]achievement.UserAchievement, error)
	Completed(ctx context.Context, userID uuid.UUID) ([]achievement.UserAchievement, error)
	Pending(ctx context.Context, userID uuid.UUID) ([]achievement.UserAchievement, error)
	SetProgress(ctx context.Context, userID, achievementID uuid.UUID, p achievement.Progress) (*achievement.UserAchievement, error)
	ProcessActivity(ctx context.Context, userID uuid.UUID, action string, md achievement.Metadata) (achievement.ProcessResult, error)
}

type AchievementHandler struct {
	Svc AchievementService
	Log *logger.Logger
}

// List supports ?category= as a filter.
func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		out []achievement.Achievement
		err error
	)
	if cat := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("category"))); cat != "" {
		out, err = h.Svc.ListByCategory(r.Context(), achievement.Category(cat))
	} else {
		out, err = h.Svc.List(r.Context())
	}
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

func (h *AchievementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	a, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, a)
}

func (h *AchievementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in achievement.Input
	if err := response.Decode(r, &in); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	a, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.Created(w, a)
}

func (h *AchievementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	var in achievement.Input
	if err := response.Decode(r, &in); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	a, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, a)
}

func (h *AchievementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, map[string]any{"id": id})
}

func (h *AchievementHandler) userList(fn func(context.Context, uuid.UUID) ([]achievement.UserAchievement, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context(), currentUser(r))
		if err != nil {
			response.FromError(w, h.Log, err)
			return
		}
		response.OK(w, out)
	}
}

func (h *AchievementHandler) UserAchievements(w http.ResponseWriter, r *http.Request) {
	h.userList(h.Svc.UserAchievements)(w, r)
}

func (h *AchievementHandler) Completed(w http.ResponseWriter, r *http.Request) {
	h.userList(h.Svc.Completed)(w, r)
}

func (h *AchievementHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.userList(h.Svc.Pending)(w, r)
}

type activityReq struct {
	Action   string               `json:"action"`
	Metadata achievement.Metadata `json:"metadata"`
}

func (h *AchievementHandler) ProcessActivity(w http.ResponseWriter, r *http.Request) {
	var req activityReq
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	res, err := h.Svc.ProcessActivity(r.Context(), currentUser(r), req.Action, req.Metadata)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, res)
}

type progressReq struct {
	Progress achievement.Progress `json:"progress"`
}

func (h *AchievementHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	achID, err := uuidParam(r, "achievementId")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	var req progressReq
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	ua, err := h.Svc.SetProgress(r.Context(), currentUser(r), achID, req.Progress)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, ua)
}
