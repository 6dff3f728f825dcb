package handler

import (
	"context"
	"net/http"

	"augmend/internal/auth"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

type AuthHandler struct {
	Svc AuthService
	Log *logger.Logger
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterInput
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	sess, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.Created(w, sess)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := response.Decode(r, &req); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	sess, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, sess)
}
