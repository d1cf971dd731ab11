// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

// Command api is the entry point for the Receitaria HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers and the blocklist sweeper.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saborlabs/receitaria/internal/api"
	"github.com/saborlabs/receitaria/internal/core/recipe"
	"github.com/saborlabs/receitaria/internal/platform/clock"
	"github.com/saborlabs/receitaria/internal/platform/config"
	"github.com/saborlabs/receitaria/internal/platform/constants"
	"github.com/saborlabs/receitaria/internal/platform/mail"
	"github.com/saborlabs/receitaria/internal/platform/metrics"
	"github.com/saborlabs/receitaria/internal/platform/migration"
	pgstore "github.com/saborlabs/receitaria/internal/platform/postgres"
	redisstore "github.com/saborlabs/receitaria/internal/platform/redis"
	"github.com/saborlabs/receitaria/internal/platform/sec"
	"github.com/saborlabs/receitaria/internal/users/account"
	"github.com/saborlabs/receitaria/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "receitaria"))
	slog.SetDefault(log)

	log.Info("[Receitaria] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env file is optional. Real deployments inject the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("dotenv_load_failed", slog.Any("error", err))
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "receitaria"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("revocation_backend", cfg.RevocationBackend),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	collector := metrics.New()
	collector.RegisterPool(pool)

	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, log)

	systemClock := clock.System{}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)

	// The revocation blocklist is pluggable. Postgres rows are durable and
	// purged by the daily sweep; Redis entries expire on their own TTL.
	var blockedRepository auth.BlockedTokenRepository
	switch cfg.RevocationBackend {
	case "redis":
		blockedRepository = auth.NewRedisBlockedTokenRepository(rdb)
	case "postgres":
		blockedRepository = auth.NewBlockedTokenRepository(pool)
	default:
		must(log, errors.New("unknown REVOCATION_BACKEND: "+cfg.RevocationBackend), "select revocation backend")
	}

	authService := auth.NewService(userRepository, blockedRepository, jwtSvc, mailer, systemClock, log, collector)
	authHandler := auth.NewHandler(authService)

	accountService := account.NewService(userRepository, log)
	accountHandler := account.NewHandler(accountService)

	recipeRepository := recipe.NewPostgresRepository(pool)
	recipeService := recipe.NewService(recipeRepository, log)
	recipeHandler := recipe.NewHandler(recipeService)

	// ── 9. Blocklist Sweeper ──────────────────────────────────────────────
	sweeper, err := auth.NewSweeper(blockedRepository, systemClock, log, collector, cfg.SweepAt)
	must(log, err, "initialize blocklist sweeper")

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go sweeper.Run(sweepCtx)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   collector.Handler(),
		Auth:      authHandler,
		Account:   accountHandler,
		Recipe:    recipeHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, blockedRepository, collector, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Stop the sweeper before draining HTTP so no purge races the shutdown.
	sweepCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
