// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api mounts the domain handlers behind the middleware chain and runs
the [http.Server].

Authorization is per route: each feature router applies
[middleware.Gate.Require] with the roles it needs. Nothing here
authenticates globally, and /health, /ready and /metrics stay public.
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/cursus/internal/info"
	"github.com/taibuivan/cursus/internal/learning/course"
	"github.com/taibuivan/cursus/internal/platform/config"
	"github.com/taibuivan/cursus/internal/platform/constants"
	"github.com/taibuivan/cursus/internal/platform/metrics"
	"github.com/taibuivan/cursus/internal/platform/middleware"
	"github.com/taibuivan/cursus/internal/users/account"
	"github.com/taibuivan/cursus/internal/users/auth"
)

// Server is the API listener.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers are the route sets mounted by [NewRouter].
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Auth    *auth.Handler    // /api/v1/auth
	Account *account.Handler // /api/v1/users
	Course  *course.Handler  // /api/v1/courses
	Info    *info.Handler    // /api/v1/info
}

// NewRouter builds the chi router with the full middleware chain and every
// route group. ctx bounds the background work of the rate limiter.
func NewRouter(ctx context.Context, cfg *config.Config, log *slog.Logger, telemetry *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.TrustedProxies(cfg.TrustedProxyPrefixes()))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(telemetry.Middleware)
	r.Use(middleware.SecureHeaders(cfg))
	r.Use(middleware.CORS(cfg, cfg.ExtraOrigins...))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery())
	r.Use(chimw.CleanPath)

	// Probes and scraping
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/courses", h.Course.Routes())
		api.Mount("/info", h.Info.Routes())
	})

	return r
}

// NewServer wraps [NewRouter] in an [http.Server] with the configured timeouts.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, telemetry *metrics.Metrics, h Handlers) *Server {
	r := NewRouter(ctx, cfg, log, telemetry, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// # Server Lifecycle

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// shutdownTimeout. It returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server_listen_failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server_shutdown_failed: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server_listen_failed: %w", err)
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
