// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Handler struct {
	repo       Repository
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
}

type HandlerConfig struct {
	Repository Repository
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		repo:       cfg.Repository,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/dashboard", h.Dashboard)
	r.Get("/admin/system", h.System)
}

// Dashboard summarises the store: headcounts, revenue and the order
// pipeline.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := h.repo.Totals(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	byStatus, err := h.repo.OrdersByStatus(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	statuses := make(map[string]int, len(byStatus))
	for _, s := range byStatus {
		statuses[s.Status] = s.Total
	}

	core.OK(w, DashboardResponse{
		Users:              totals.Users,
		Products:           totals.Products,
		OutOfStock:         totals.OutOfStock,
		Orders:             totals.Orders,
		Revenue:            totals.Revenue.Round(2),
		OpenCustomRequests: totals.OpenCustomRequests,
		OrdersByStatus:     statuses,
	})
}

func (h *Handler) System(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var dbHealthy, redisHealthy bool
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dbHealthy = h.dbPing != nil && h.dbPing(ctx) == nil
	}()
	go func() {
		defer wg.Done()
		redisHealthy = h.redisPing != nil && h.redisPing(ctx) == nil
	}()
	wg.Wait()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			NumGC:        memStats.NumGC,
		},
	})
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
