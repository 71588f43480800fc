// AngelaMos | 2026
// ratelimit_test.go

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

// unreachableRedis returns a client whose server has already gone away, so
// every call falls back to the in-process limiter.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterFallsBackToLocalBuckets(t *testing.T) {
	rl := middleware.NewRateLimiter(unreachableRedis(t), middleware.RateLimitConfig{
		Limit: middleware.PerMinute(1, 2),
	})
	h := rl.Handler(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitExceededBody(t *testing.T) {
	rl := middleware.NewRateLimiter(unreachableRedis(t), middleware.RateLimitConfig{
		Limit: middleware.PerMinute(1, 1),
	})
	h := rl.Handler(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "RATE_LIMITED", body["code"])
}

func TestRateLimiterBypassesProbes(t *testing.T) {
	rl := middleware.NewRateLimiter(unreachableRedis(t), middleware.RateLimitConfig{
		Limit:      middleware.PerMinute(1, 1),
		BypassFunc: middleware.SkipProbes,
	})
	h := rl.Handler(okHandler())

	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestKeyByIPAndEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    string
	}{
		{
			name: "remote addr",
			path: "/api/auth/login",
			want: "ratelimit:ip:192.0.2.1:endpoint:/api/auth/login",
		},
		{
			name: "uuid collapsed",
			path: "/api/orders/6f1c1d1e-8d7a-4c1b-9d55-0a5c2b0e7f11",
			want: "ratelimit:ip:192.0.2.1:endpoint:/api/orders/{id}",
		},
		{
			name:    "last forwarded hop",
			path:    "/api/products/find/42",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 203.0.113.9"},
			want:    "ratelimit:ip:203.0.113.9:endpoint:/api/products/find/{id}",
		},
		{
			name:    "real ip header",
			path:    "/api/custom",
			headers: map[string]string{"X-Real-IP": "198.51.100.7"},
			want:    "ratelimit:ip:198.51.100.7:endpoint:/api/custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, middleware.KeyByIPAndEndpoint(req))
		})
	}
}

func TestRateLimiterCloseIsIdempotent(t *testing.T) {
	rl := middleware.NewRateLimiter(unreachableRedis(t), middleware.RateLimitConfig{
		Limit: middleware.PerMinute(5, 5),
	})

	rl.Close()
	rl.Close()

	rec := httptest.NewRecorder()
	rl.Handler(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
