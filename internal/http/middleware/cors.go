package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"

	"augmend/internal/config"
)

const corsMaxAge = 10 * time.Minute

// CORS returns nil when no origins are configured.
func CORS(cfg config.Config) func(http.Handler) http.Handler {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return nil
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           int(corsMaxAge / time.Second),
	})
}
