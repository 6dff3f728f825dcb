package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"augmend/internal/auth"
	"augmend/internal/pkg/apperr"
	"augmend/internal/timeutil"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", apperr.ErrInvalidInput, name)
	}
	return id, nil
}

// currentUser is only called behind auth.RequireAuth.
func currentUser(r *http.Request) uuid.UUID {
	uid, _ := auth.UserIDFromContext(r.Context())
	return uid
}

// timeQuery accepts RFC3339 or a plain YYYY-MM-DD day.
func timeQuery(r *http.Request, key string) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := timeutil.ParseDay(v, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", apperr.ErrInvalidInput, key)
	}
	return &t, nil
}

func intQuery(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid %s", apperr.ErrInvalidInput, key)
	}
	return n, nil
}
