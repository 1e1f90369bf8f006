// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/admin"
	"github.com/carterperez-dev/tourbook/internal/auth"
	"github.com/carterperez-dev/tourbook/internal/config"
	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/health"
	"github.com/carterperez-dev/tourbook/internal/mail"
	"github.com/carterperez-dev/tourbook/internal/middleware"
	"github.com/carterperez-dev/tourbook/internal/review"
	"github.com/carterperez-dev/tourbook/internal/server"
	"github.com/carterperez-dev/tourbook/internal/tour"
	"github.com/carterperez-dev/tourbook/internal/user"
)

const (
	drainDelay = 5 * time.Second
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
		"name", cfg.Database.Name,
		"max_pool_size", cfg.Database.MaxPoolSize,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokenManager, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"expiry", cfg.JWT.Expire,
	)

	mailer := mail.NewSMTPMailer(cfg.Email)

	userRepo := user.NewRepository(db)
	tourRepo := tour.NewRepository(db)
	reviewRepo := review.NewRepository(db)

	if err := ensureIndexes(ctx, userRepo, tourRepo, reviewRepo); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("indexes ensured")

	userSvc := user.NewService(userRepo)
	tourSvc := tour.NewService(tourRepo)
	reviewSvc := review.NewService(reviewRepo, tourRepo)
	authSvc := auth.NewService(userSvc, tokenManager, mailer, cfg.App.PublicURL)

	userHandler := user.NewHandler(userSvc)
	tourHandler := tour.NewHandler(tourSvc, func(
		ctx context.Context,
		tourID primitive.ObjectID,
	) (any, error) {
		return reviewSvc.ListByTour(ctx, tourID)
	})
	reviewHandler := review.NewHandler(reviewSvc)
	authHandler := auth.NewHandler(authSvc)

	healthHandler := health.NewHandler(
		health.Check{Name: "mongodb", Pinger: db},
		health.Check{Name: "redis", Pinger: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Database:   db,
		RedisStats: redis.PoolStats,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	protect := middleware.Protect(authSvc)
	adminOnly := middleware.RequireRole(user.RoleAdmin.String())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			authHandler.RegisterRoutes(r, protect)
			userHandler.RegisterRoutes(r, protect)
		})
		tourHandler.RegisterRoutes(r, protect)
		reviewHandler.RegisterRoutes(r, protect)
		adminHandler.RegisterRoutes(r, protect, adminOnly)
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

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(shutdownCtx); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, indexers ...indexer) error {
	for _, ix := range indexers {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
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
