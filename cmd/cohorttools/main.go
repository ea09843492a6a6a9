package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cohort-tools/cohort-tools/internal/app"
	"github.com/cohort-tools/cohort-tools/internal/auth"
	"github.com/cohort-tools/cohort-tools/internal/cohorts"
	"github.com/cohort-tools/cohort-tools/internal/observability"
	"github.com/cohort-tools/cohort-tools/internal/platform/cache"
	"github.com/cohort-tools/cohort-tools/internal/platform/db"
	"github.com/cohort-tools/cohort-tools/internal/students"
	"github.com/cohort-tools/cohort-tools/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool); err != nil {
		logger.Error("apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, cohort list cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	tokens, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("token service", slog.Any("error", err))
		os.Exit(1)
	}
	metrics := observability.NewMetrics()

	authService := auth.NewService(
		auth.NewRepository(dbpool, cfg.StoreTimeout),
		auth.NewPasswordHasher(auth.DefaultArgon2Params),
		tokens,
	)
	authHandler := auth.NewHandler(logger, authService, auth.Middleware{
		Tokens:     tokens,
		Logger:     logger,
		Rejections: metrics,
	})

	var cohortCache *cache.JSONCache
	if redisClient != nil {
		cohortCache = cache.NewJSONCache(redisClient, "cohorttools:cohorts", cfg.CacheTTL)
	}
	cohortService := cohorts.NewService(cohorts.NewRepository(dbpool, cfg.StoreTimeout), cohortCache)
	studentService := students.NewService(students.NewRepository(dbpool, cfg.StoreTimeout))
	userService := users.NewService(users.NewRepository(dbpool, cfg.StoreTimeout))

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		CohortsHandler:  cohorts.NewHandler(logger, cohortService),
		StudentsHandler: students.NewHandler(logger, studentService),
		UsersHandler:    users.NewHandler(logger, userService),
		Metrics:         metrics,
		Store:           dbpool,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
