package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"augmend/internal/content"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

type ContentService interface {
	List(ctx context.Context, f content.Filter) ([]content.Content, error)
	Get(ctx context.Context, id uuid.UUID) (*content.Content, error)
	Create(ctx context.Context, in content.Input) (*content.Content, error)
	Update(ctx context.Context, id uuid.UUID, in content.Input) (*content.Content, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]string, error)
	Types(ctx context.Context) ([]string, error)
	UserContent(ctx context.Context, userID uuid.UUID) ([]content.UserContent, error)
	UpdateProgress(ctx context.Context, userID, contentID uuid.UUID, progress int) (*content.UserContent, error)
	ToggleBookmark(ctx context.Context, userID, contentID uuid.UUID) (*content.UserContent, error)
	Bookmarks(ctx context.Context, userID uuid.UUID) ([]content.UserContent, error)
	Recent(ctx context.Context, userID uuid.UUID) ([]content.UserContent, error)
	Recommendations(ctx context.Context, userID uuid.UUID) ([]content.Content, error)
}

type ContentHandler struct {
	Svc ContentService
	Log *logger.Logger
}

func filterFromQuery(r *http.Request) content.Filter {
	q := r.URL.Query()
	return content.Filter{
		Type:       content.Type(strings.TrimSpace(q.Get("type"))),
		Category:   strings.TrimSpace(q.Get("category")),
		Difficulty: content.Difficulty(strings.TrimSpace(q.Get("difficulty"))),
		Search:     strings.TrimSpace(q.Get("search")),
	}
}

func (h *ContentHandler) list(w http.ResponseWriter, r *http.Request, f content.Filter) {
	out, err := h.Svc.List(r.Context(), f)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, filterFromQuery(r))
}

func (h *ContentHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	f.Category = chi.URLParam(r, "category")
	h.list(w, r, f)
}

func (h *ContentHandler) ByType(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	f.Type = content.Type(chi.URLParam(r, "type"))
	h.list(w, r, f)
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, c)
}

func (h *ContentHandler) stringList(fn func(context.Context) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context())
		if err != nil {
			response.FromError(w, h.Log, err)
			return
		}
		response.OK(w, out)
	}
}

func (h *ContentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.stringList(h.Svc.Categories)(w, r)
}

func (h *ContentHandler) Types(w http.ResponseWriter, r *http.Request) {
	h.stringList(h.Svc.Types)(w, r)
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in content.Input
	if err := response.Decode(r, &in); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	c, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.Created(w, c)
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	var in content.Input
	if err := response.Decode(r, &in); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	c, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, c)
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ContentHandler) userContent(fn func(context.Context, uuid.UUID) ([]content.UserContent, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context(), currentUser(r))
		if err != nil {
			response.FromError(w, h.Log, err)
			return
		}
		response.OK(w, out)
	}
}

func (h *ContentHandler) UserContent(w http.ResponseWriter, r *http.Request) {
	h.userContent(h.Svc.UserContent)(w, r)
}

func (h *ContentHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	h.userContent(h.Svc.Bookmarks)(w, r)
}

func (h *ContentHandler) Recent(w http.ResponseWriter, r *http.Request) {
	h.userContent(h.Svc.Recent)(w, r)
}

func (h *ContentHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.Recommendations(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, out)
}

type contentProgressReq struct {
	Progress int `json:"progress"`
}

func (h *ContentHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "contentId")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	var req contentProgressReq
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	uc, err := h.Svc.UpdateProgress(r.Context(), currentUser(r), contentID, req.Progress)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, uc)
}

func (h *ContentHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuidParam(r, "contentId")
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	uc, err := h.Svc.ToggleBookmark(r.Context(), currentUser(r), contentID)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, uc)
}
