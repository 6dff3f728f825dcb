package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/redis/go-redis/v9"

	"augmend/internal/config"
	"augmend/internal/http/response"
	"augmend/internal/pkg/logger"
)

// Store counts hits in fixed windows. Hit returns the count for key in the
// current window, including this hit.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	// first hit in the window, or a key that lost its expiry
	if ttl.Val() < 0 {
		if err := s.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return incr.Val(), nil
}

type bucket struct {
	count int64
	reset time.Time
}

// MemoryStore is a per-process Store for single instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	buckets map[string]*bucket
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{clock: clk, buckets: map[string]*bucket{}}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	b, ok := s.buckets[key]
	if !ok || !now.Before(b.reset) {
		b = &bucket{reset: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

// Sweep drops expired windows.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	for k, b := range s.buckets {
		if !now.Before(b.reset) {
			delete(s.buckets, k)
		}
	}
}

// RateLimit allows limit.Max requests per client IP per window. Store errors
// let the request through.
func RateLimit(store Store, name string, limit config.RateLimit, baseLog *logger.Logger) func(http.Handler) http.Handler {
	log := baseLog.With("middleware", "RateLimit", "limiter", name)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + name + ":" + clientIP(r)
			n, err := store.Hit(r.Context(), key, limit.Window)
			if err != nil {
				log.Warn("rate limit store unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit.Max) - n
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(limit.Max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(limit.Window.Seconds())))
				response.Error(w, http.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
