package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"augmend/internal/analytics"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
	"augmend/internal/reflection"
	"augmend/internal/streak"
)

type ReflectionService interface {
	Create(ctx context.Context, userID uuid.UUID, in reflection.Input) (*reflection.Reflection, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*reflection.Reflection, error)
	Update(ctx context.Context, userID, id uuid.UUID, p reflection.Patch) (*reflection.Reflection, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, f reflection.Filter) ([]reflection.Reflection, error)
	Streaks(ctx context.Context, userID uuid.UUID) (streak.Result, error)
	MoodStats(ctx context.Context, userID uuid.UUID, period string) ([]analytics.MoodCount, error)
}

type ReflectionHandler struct {
	Svc ReflectionService
	Log *logger.Logger
}

func (h *ReflectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in reflection.Input
	if err := response.Decode(r, &in); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	ref, err := h.Svc.Create(r.Context(), currentUser(r), in)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.Created(w, ref)
}

// List reads start, end, mood, search, limit and page from the query.
func (h *ReflectionHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		f   reflection.Filter
		err error
	)
	if f.Start, err = timeQuery(r, "start"); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	if f.End, err = timeQuery(r, "end"); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	if f.Limit, err = intQuery(r, "limit"); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	if f.Page, err = intQuery(r, "page"); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	f.Mood = strings.TrimSpace(r.URL.Query().Get("mood"))
	f.Search = strings.TrimSpace(r.URL.Query().Get("search"))

	out, err := h.Svc.List(r.Context(), currentUser(r), f)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

func (h *ReflectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	ref, err := h.Svc.Get(r.Context(), currentUser(r), id)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, ref)
}

func (h *ReflectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	var p reflection.Patch
	if err := response.Decode(r, &p); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	ref, err := h.Svc.Update(r.Context(), currentUser(r), id, p)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, ref)
}

func (h *ReflectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), currentUser(r), id); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, map[string]any{"id": id})
}

func (h *ReflectionHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Streaks(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, res)
}

func (h *ReflectionHandler) MoodStats(w http.ResponseWriter, r *http.Request) {
	period := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period")))
	out, err := h.Svc.MoodStats(r.Context(), currentUser(r), period)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}
