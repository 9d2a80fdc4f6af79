// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Cursus HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration and the signing secret from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// A missing or short JWT_SECRET stops the process at step 2, before any
// connection or listener is opened.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/cursus/internal/api"
	"github.com/taibuivan/cursus/internal/info"
	"github.com/taibuivan/cursus/internal/learning/course"
	"github.com/taibuivan/cursus/internal/platform/config"
	"github.com/taibuivan/cursus/internal/platform/constants"
	"github.com/taibuivan/cursus/internal/platform/metrics"
	"github.com/taibuivan/cursus/internal/platform/middleware"
	"github.com/taibuivan/cursus/internal/platform/migration"
	pgstore "github.com/taibuivan/cursus/internal/platform/postgres"
	redisstore "github.com/taibuivan/cursus/internal/platform/redis"
	"github.com/taibuivan/cursus/internal/platform/sec"
	"github.com/taibuivan/cursus/internal/platform/secret"
	"github.com/taibuivan/cursus/internal/users/account"
	"github.com/taibuivan/cursus/internal/users/auth"
)

func main() {
	// run owns every deferred close, so os.Exit happens only after they ran.
	os.Exit(run())
}

func run() int {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration & Secrets ────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fail(log, "load configuration", err)
	}

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	secrets, err := secret.Load()
	if err != nil {
		return fail(log, "load secrets", err)
	}

	signingKey, err := secrets.MustGet(secret.JWTSecret)
	if err != nil {
		return fail(log, "read signing secret", err)
	}

	codec, err := sec.NewTokenCodec(signingKey, cfg.AuthIssuer)
	if err != nil {
		return fail(log, "initialize token codec", err)
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("default_role", cfg.DefaultRoleCode.String()),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log, pgstore.WithQueryTracing(cfg.Debug))
	if err != nil {
		return fail(log, "connect to postgres", err)
	}
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fail(log, "connect to redis", err)
	}
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fail(log, "run migrations", err)
	}

	// ── 6. Security ───────────────────────────────────────────────────────
	telemetry := metrics.New()
	gate := middleware.NewGate(codec,
		middleware.AnyCarrier{
			middleware.BearerCarrier{},
			middleware.CookieCarrier{Name: cfg.AuthCookieName},
		},
		middleware.WithObserver(telemetry),
	)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	refreshTokenRepository := auth.NewRefreshTokenRepository(rdb)

	authService := auth.NewService(userRepository, refreshTokenRepository, codec, auth.Policy{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		DefaultRole:     cfg.DefaultRoleCode,
	},
		auth.WithLoginObserver(telemetry),
		auth.WithLogger(log),
	)
	accountService := account.NewService(userRepository, authService, cfg.DefaultRoleCode, log)
	courseService := course.NewService(course.NewPostgresRepository(pool), log)
	infoService := info.NewService(info.NewPostgresRepository(pool), log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth: auth.NewHandler(authService, gate, auth.CookieSettings{
			AccessCookieName: cfg.AuthCookieName,
			Secure:           !cfg.IsDevelopment(),
		}),
		Account: account.NewHandler(accountService, gate),
		Course:  course.NewHandler(courseService, userRepository, gate),
		Info:    info.NewHandler(infoService, gate),
	}

	// ── 9. HTTP Server & Graceful Shutdown ─────────────────────────────────
	// SIGINT or SIGTERM cancels runCtx. The same context stops the rate
	// limiter sweeper once the server has drained.
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(runCtx, cfg, log, telemetry, handlers)
	if err := server.Run(runCtx, constants.ShutdownTimeout); err != nil {
		log.Error("server_failed", slog.Any("error", err))
		return 1
	}

	log.Info("server_stopped")
	return 0
}

// newLogger builds the JSON logger tagged with the application name and
// installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// fail logs a startup failure and returns the process exit code. Deferred
// closes in run still execute on the way out.
func fail(log *slog.Logger, step string, err error) int {
	log.Error("startup_failure",
		slog.String("step", step),
		slog.Any("error", err),
	)
	return 1
}
