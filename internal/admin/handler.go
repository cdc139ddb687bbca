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

	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/subscription"
)

type RoleCounter interface {
	CountByRole(ctx context.Context) (map[string]int, error)
}

type SubscriptionCounter interface {
	StatusBreakdown(ctx context.Context) (map[subscription.Status]int, error)
}

type Handler struct {
	dbStats       func() sql.DBStats
	redisStats    func() *redis.PoolStats
	dbPing        func(ctx context.Context) error
	redisPing     func(ctx context.Context) error
	users         RoleCounter
	subscriptions SubscriptionCounter
}

type HandlerConfig struct {
	DBStats       func() sql.DBStats
	RedisStats    func() *redis.PoolStats
	DBPing        func(ctx context.Context) error
	RedisPing     func(ctx context.Context) error
	Users         RoleCounter
	Subscriptions SubscriptionCounter
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:       cfg.DBStats,
		redisStats:    cfg.RedisStats,
		dbPing:        cfg.DBPing,
		redisPing:     cfg.RedisPing,
		users:         cfg.Users,
		subscriptions: cfg.Subscriptions,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/stats", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.GetSystemStats)
		r.Get("/db", h.GetDatabaseStats)
		r.Get("/redis", h.GetRedisStats)
		r.Get("/runtime", h.GetRuntimeStats)
		r.Get("/lifters", h.GetLifterStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		wg           sync.WaitGroup
		dbHealthy    = true
		redisHealthy = true
	)
	if h.dbPing != nil {
		wg.Go(func() { dbHealthy = h.dbPing(ctx) == nil })
	}
	if h.redisPing != nil {
		wg.Go(func() { redisHealthy = h.redisPing(ctx) == nil })
	}
	wg.Wait()

	lifters, err := h.lifterStats(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{Healthy: dbHealthy, Stats: h.getDBStats()},
		Redis:    RedisStatus{Healthy: redisHealthy, Stats: h.getRedisStats()},
		Runtime:  readRuntimeStats(),
		Lifters:  lifters,
	})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

func (h *Handler) GetLifterStats(w http.ResponseWriter, r *http.Request) {
	lifters, err := h.lifterStats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, lifters)
}

func (h *Handler) lifterStats(ctx context.Context) (LifterStats, error) {
	stats := LifterStats{
		Roles:         map[string]int{},
		Subscriptions: map[string]int{},
	}

	if h.users != nil {
		roles, err := h.users.CountByRole(ctx)
		if err != nil {
			return stats, err
		}
		for role, n := range roles {
			stats.Roles[role] = n
			stats.Total += n
		}
	}

	if h.subscriptions != nil {
		breakdown, err := h.subscriptions.StatusBreakdown(ctx)
		if err != nil {
			return stats, err
		}
		for status, n := range breakdown {
			stats.Subscriptions[string(status)] = n
		}
	}

	return stats, nil
}

func readRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
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
