package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"augmend/internal/auth"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

type ProfileService interface {
	Profile(ctx context.Context, id uuid.UUID) (*auth.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p auth.ProfilePatch) (*auth.User, error)
}

// MeHandler serves the token user's own profile.
type MeHandler struct {
	Svc ProfileService
	Log *logger.Logger
}

func (h *MeHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Profile(r.Context(), currentUser(r))
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, u)
}

func (h *MeHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch auth.ProfilePatch
	if err := response.Decode(r, &patch); err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	u, err := h.Svc.UpdateProfile(r.Context(), currentUser(r), patch)
	if err != nil {
		response.FromError(w, h.Log, err)
		return
	}
	response.OK(w, u)
}
