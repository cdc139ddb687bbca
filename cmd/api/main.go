// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"go.uber.org/multierr"

	"github.com/liftlog/liftlog-api/internal/admin"
	"github.com/liftlog/liftlog-api/internal/auth"
	"github.com/liftlog/liftlog-api/internal/competition"
	"github.com/liftlog/liftlog-api/internal/config"
	"github.com/liftlog/liftlog-api/internal/core"
	"github.com/liftlog/liftlog-api/internal/events"
	"github.com/liftlog/liftlog-api/internal/goal"
	"github.com/liftlog/liftlog-api/internal/health"
	"github.com/liftlog/liftlog-api/internal/middleware"
	"github.com/liftlog/liftlog-api/internal/records"
	"github.com/liftlog/liftlog-api/internal/server"
	"github.com/liftlog/liftlog-api/internal/subscription"
	"github.com/liftlog/liftlog-api/internal/user"
	"github.com/liftlog/liftlog-api/internal/workout"
)

const tokenPruneInterval = time.Hour

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.MigrateOnStart {
		if err := core.Migrate(ctx, db.DB); err != nil {
			return multierr.Append(err, db.Close())
		}
		logger.Info("schema applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return multierr.Append(err, db.Close())
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return multierr.Combine(err, redis.Close(), db.Close())
	}
	logger.Info("JWT manager initialized", "algorithm", "ES256", "key_id", jwtManager.KeyID())

	publisher := events.NewPublisher(cfg.Kafka)
	logger.Info("event publisher ready",
		"kafka_enabled", cfg.Kafka.Enabled,
		"brokers", cfg.Kafka.Brokers,
	)

	userSvc := user.NewService(user.NewRepository(db.DB))

	subscriptionSvc := subscription.NewService(
		subscription.NewRepository(db.DB),
		subscription.NewStripeVerifier(cfg.Billing.WebhookSecret, cfg.Subscription.MaxWebhookAge),
		subscription.NewBilling(cfg.Billing),
		publisher,
		logger,
		cfg.Subscription,
		cfg.Billing.DefaultPlan,
	)

	authSvc := auth.NewService(
		auth.NewRepository(db.DB),
		jwtManager,
		userSvc,
		subscriptionSvc,
		logger,
	)

	recordsRepo := records.NewRepository(db.DB)
	recordsSvc := records.NewService(
		recordsRepo,
		records.NewAggregator(
			recordsRepo,
			records.NewRedisBestsCache(redis.Client, cfg.Records.CacheTTL),
			userSvc,
			logger,
		),
		publisher,
		logger,
		cfg.Records,
	)

	workoutSvc := workout.NewService(workout.NewRepository(db.DB), recordsSvc, logger)
	competitionSvc := competition.NewService(
		competition.NewRepository(db.DB),
		recordsSvc,
		userSvc,
		logger,
	)
	goalSvc := goal.NewService(goal.NewRepository(db.DB), recordsSvc, logger)

	healthHandler := health.NewHandler().
		Register("database", db).
		Register("redis", redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:       db.Stats,
		RedisStats:    redis.PoolStats,
		DBPing:        db.Ping,
		RedisPing:     redis.Ping,
		Users:         userSvc,
		Subscriptions: subscriptionSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		MetricsConfig: cfg.Metrics,
		ServiceName:   cfg.Otel.ServiceName,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitOptions{
			Limit:        middleware.LimitFromConfig(cfg.RateLimit),
			BypassPrefix: []string{"/v1/webhooks/"},
		}, logger).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireRole(user.RoleAdmin)
	verifiers := middleware.RequireRole(user.RoleCoach, user.RoleAdmin)
	requireAccess := subscriptionSvc.RequireAccess

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator)

		userHandler := user.NewHandler(userSvc)
		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		subscriptionHandler := subscription.NewHandler(subscriptionSvc)
		subscriptionHandler.RegisterRoutes(r, authenticator)
		subscriptionHandler.RegisterWebhookRoutes(r)

		recordsHandler := records.NewHandler(recordsSvc)
		recordsHandler.RegisterRoutes(r, authenticator, requireAccess)
		recordsHandler.RegisterAdminRoutes(r, authenticator, verifiers)

		workout.NewHandler(workoutSvc).RegisterRoutes(r, authenticator)
		competition.NewHandler(competitionSvc).RegisterRoutes(r, authenticator, requireAccess)
		goal.NewHandler(goalSvc).RegisterRoutes(r, authenticator, requireAccess)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	pruneCtx, stopPrune := context.WithCancel(ctx)
	pruneDone := make(chan struct{})
	go func() {
		defer close(pruneDone)
		pruneRefreshTokens(pruneCtx, authSvc, logger)
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	var runErr error
	select {
	case runErr = <-errChan:
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	stopPrune()
	<-pruneDone

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+cfg.Server.DrainDelay+5*time.Second,
	)
	defer cancel()

	if runErr == nil {
		if err := srv.Shutdown(shutdownCtx, cfg.Server.DrainDelay); err != nil {
			runErr = multierr.Append(runErr, err)
		}
	}

	if telemetry != nil {
		runErr = multierr.Append(runErr, telemetry.Shutdown(shutdownCtx))
	}

	runErr = multierr.Combine(runErr, publisher.Close(), redis.Close(), db.Close())

	for _, err := range multierr.Errors(runErr) {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("application stopped")
	return runErr
}

func pruneRefreshTokens(ctx context.Context, svc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(tokenPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PruneExpired(ctx)
			if err != nil {
				logger.Warn("prune refresh tokens failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned expired refresh tokens", "count", n)
			}
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	switch cfg.Format {
	case "console":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	case "text":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
