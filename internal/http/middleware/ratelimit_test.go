package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augmend/internal/config"
	"augmend/internal/pkg/logger"
)

func TestMemoryStore_FixedWindow(t *testing.T) {
	clk := clock.NewMock()
	s := NewMemoryStore(clk)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := s.Hit(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	n, _ := s.Hit(ctx, "other", time.Minute)
	assert.EqualValues(t, 1, n)

	clk.Add(time.Minute)
	n, _ = s.Hit(ctx, "k", time.Minute)
	assert.EqualValues(t, 1, n)

	clk.Add(2 * time.Minute)
	s.Sweep()
	assert.Empty(t, s.buckets)
}

func newLimited(store Store, max int) http.Handler {
	limit := config.RateLimit{Max: max, Window: time.Minute}
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	return RateLimit(store, "api", limit, logger.Nop())(ok)
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	h := newLimited(NewMemoryStore(clock.NewMock()), 2)

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111").Code)
	rec := do("10.0.0.1:2222")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")

	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111").Code)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	h := newLimited(failingStore{}, 1)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("set TEST_REDIS_URL to run redis integration tests")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	key := "ratelimit:test:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, key) })

	s := NewRedisStore(rdb)
	n, err := s.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = s.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	ttl, err := rdb.PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
