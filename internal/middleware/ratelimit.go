// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// RateLimiter meters requests against Redis and drops to per-process token
// buckets while Redis is unreachable. Call Close on shutdown.
type RateLimiter struct {
	redis  *redis_rate.Limiter
	local  *localBuckets
	config RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		redis:  redis_rate.NewLimiter(rdb),
		local:  newLocalBuckets(bucketSweepInterval, bucketIdleTTL),
		config: cfg,
	}
}

// Close stops the background sweep of idle local buckets. Safe to call more
// than once.
func (rl *RateLimiter) Close() {
	rl.local.close()
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.check(r.Context(), key)
		switch {
		case err != nil && rl.config.FailOpen:
			slog.Warn("rate limiter unavailable, letting request through",
				"error", err,
				"key", key,
			)
			next.ServeHTTP(w, r)
			return
		case err != nil:
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		writeLimitHeaders(w.Header(), res)
		if res.Allowed == 0 {
			rejectRateLimited(w, res.RetryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) check(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	res, err := rl.redis.Allow(ctx, key, rl.config.Limit)
	if err == nil {
		return res, nil
	}
	slog.Debug("redis rate limit failed, using local bucket",
		"error", err,
		"key", key,
	)
	return rl.local.take(key, rl.config.Limit, time.Now()), nil
}

// KeyByIP trusts the last X-Forwarded-For hop, the one appended by our own
// proxy.
func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + clientIP(r)
}

// KeyByIPAndEndpoint buckets per client and per route, with ids collapsed so
// /api/orders/<uuid> shares one bucket.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routeShape(r.URL.Path)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func routeShape(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if looksLikeID(seg) {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func looksLikeID(seg string) bool {
	if len(seg) == 36 && seg[8] == '-' && seg[13] == '-' &&
		seg[18] == '-' && seg[23] == '-' {
		return true
	}
	if seg == "" {
		return false
	}
	_, err := strconv.ParseUint(seg, 10, 64)
	return err == nil
}

func writeLimitHeaders(h http.Header, res *redis_rate.Result) {
	limit := res.Limit
	resetSecs := int(res.ResetAfter.Seconds())

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset",
		strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy",
		fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, resetSecs))
}

func rejectRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	secs := max(int(retryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(secs))
	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Success: false,
		Message: fmt.Sprintf("rate limit exceeded, retry after %d seconds", secs),
		Code:    "RATE_LIMITED",
	})
}

const (
	bucketSweepInterval = 5 * time.Minute
	bucketIdleTTL       = 10 * time.Minute
)

type localBucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// localBuckets is the in-process fallback. A background goroutine drops
// buckets idle for longer than ttl until close is called.
type localBuckets struct {
	mu      sync.Mutex
	buckets map[string]*localBucket
	ttl     time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newLocalBuckets(every, ttl time.Duration) *localBuckets {
	b := &localBuckets{
		buckets: make(map[string]*localBucket),
		ttl:     ttl,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go b.sweepLoop(every)
	return b
}

func (b *localBuckets) sweepLoop(every time.Duration) {
	defer close(b.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case now := <-ticker.C:
			b.sweep(now)
		}
	}
}

func (b *localBuckets) close() {
	b.stopOnce.Do(func() { close(b.stop) })
	<-b.done
}

// sweep drops buckets not touched since now-ttl and reports how many remain.
func (b *localBuckets) sweep(now time.Time) int {
	cutoff := now.Add(-b.ttl)

	b.mu.Lock()
	defer b.mu.Unlock()
	for key, bucket := range b.buckets {
		if bucket.lastSeen.Before(cutoff) {
			delete(b.buckets, key)
		}
	}
	return len(b.buckets)
}

func (b *localBuckets) take(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) *redis_rate.Result {
	perSec := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSec)

	b.mu.Lock()
	bucket, ok := b.buckets[key]
	if !ok {
		bucket = &localBucket{tokens: rate.NewLimiter(rate.Limit(perSec), limit.Burst)}
		b.buckets[key] = bucket
	}
	bucket.lastSeen = now
	allowed := bucket.tokens.AllowN(now, 1)
	remaining := max(int(bucket.tokens.TokensAt(now)), 0)
	b.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: time.Minute,
	}
}

// SkipProbes keeps orchestrator health checks out of the rate limiter.
func SkipProbes(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return false
}
