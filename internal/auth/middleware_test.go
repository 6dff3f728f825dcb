package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(j *JWT) http.Handler {
	r := chi.NewRouter()
	r.Use(RequireAuth(j))
	r.With(RequireSelf("userId")).Get("/users/{userId}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(id.String()))
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	j := NewJWT("secret", time.Hour, newMockClock())
	h := newTestRouter(j)
	id := uuid.New()
	tok, err := j.Sign(id)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		path   string
		status int
	}{
		{"missing header", "", "/users/" + id.String(), http.StatusUnauthorized},
		{"bad token", "Bearer nope", "/users/" + id.String(), http.StatusUnauthorized},
		{"self", "Bearer " + tok, "/users/" + id.String(), http.StatusOK},
		{"other user", "Bearer " + tok, "/users/" + uuid.NewString(), http.StatusForbidden},
		{"malformed id", "Bearer " + tok, "/users/abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, id.String(), rec.Body.String())
			}
		})
	}
}
