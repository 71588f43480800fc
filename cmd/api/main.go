// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carterperez-dev/storefront-api/internal/admin"
	"github.com/carterperez-dev/storefront-api/internal/auth"
	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/custom"
	"github.com/carterperez-dev/storefront-api/internal/events"
	"github.com/carterperez-dev/storefront-api/internal/health"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
	"github.com/carterperez-dev/storefront-api/internal/order"
	"github.com/carterperez-dev/storefront-api/internal/product"
	"github.com/carterperez-dev/storefront-api/internal/server"
	"github.com/carterperez-dev/storefront-api/internal/storage"
	"github.com/carterperez-dev/storefront-api/internal/user"
)

const (
	drainDelay = 5 * time.Second

	credentialRequestsPerMinute = 10
	credentialBurst             = 5
)

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
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
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

	if cfg.Database.AutoMigrate {
		applied, migErr := core.Migrate(ctx, db.DB)
		if migErr != nil {
			return migErr
		}
		logger.Info("migrations applied", "count", applied)
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokens, err := auth.NewTokenService(
		cfg.JWT,
		auth.NewRedisRevocationList(redis.Client),
	)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	images := storage.NewImages(store, cfg.Storage)
	logger.Info("image storage ready", "driver", cfg.Storage.Driver)

	publisher := newPublisher(cfg.Events, logger)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(tokens, userSvc)
	authHandler := auth.NewHandler(authSvc)

	productRepo := product.NewRepository(db.DB)
	var productCache product.Cache
	if cfg.Redis.CacheTTL > 0 {
		productCache = product.NewRedisCache(redis.Client, cfg.Redis.CacheTTL)
	}
	productSvc := product.NewService(productRepo, images, productCache)
	productHandler := product.NewHandler(productSvc, images.MaxUploadSize())

	orderRepo := order.NewRepository(db.DB)
	orderSvc := order.NewService(orderRepo, publisher)
	orderHandler := order.NewHandler(orderSvc)

	customRepo := custom.NewRepository(db.DB)
	customSvc := custom.NewService(customRepo, images, publisher)
	customHandler := custom.NewHandler(customSvc, images.MaxUploadSize())

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Repository: admin.NewRepository(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		ServiceName:   cfg.Otel.ServiceName,
		Tracing:       telemetry != nil,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	globalLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen:   true,
			BypassFunc: middleware.SkipProbes,
		},
	)
	defer globalLimiter.Close()
	router.Use(globalLimiter.Handler)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.NewGateway(tokens, router, server.AccessPolicy()).Handler)

	credentialLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				credentialRequestsPerMinute,
				credentialBurst,
			),
			KeyFunc:  middleware.KeyByIPAndEndpoint,
			FailOpen: true,
		},
	)
	defer credentialLimiter.Close()

	var uploads http.Handler
	if local, ok := store.(*storage.LocalStore); ok {
		uploads = local.Handler("/uploads/")
	}

	healthHandler.RegisterRoutes(router)
	server.RegisterRoutes(router, server.Handlers{
		Auth:              authHandler,
		User:              userHandler,
		Product:           productHandler,
		Order:             orderHandler,
		Custom:            customHandler,
		Admin:             adminHandler,
		CredentialLimiter: credentialLimiter.Handler,
		Uploads:           uploads,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// newPublisher connects to the broker when events are enabled. A broker that
// is down at startup leaves the API running without events.
func newPublisher(cfg config.EventsConfig, logger *slog.Logger) events.Publisher {
	if !cfg.Enabled {
		return events.Noop{}
	}

	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		logger.Warn("event broker unavailable, events disabled", "error", err)
		return events.Noop{}
	}

	logger.Info("event publisher connected", "exchange", cfg.Exchange)
	return pub
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
