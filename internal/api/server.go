// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saborlabs/receitaria/internal/core/recipe"
	"github.com/saborlabs/receitaria/internal/platform/config"
	"github.com/saborlabs/receitaria/internal/platform/constants"
	"github.com/saborlabs/receitaria/internal/platform/metrics"
	"github.com/saborlabs/receitaria/internal/platform/middleware"
	"github.com/saborlabs/receitaria/internal/users/account"
	"github.com/saborlabs/receitaria/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics exposes the Prometheus scrape endpoint.
	Metrics http.Handler

	// Auth handles the credential lifecycle (register, login, logout, recovery).
	Auth *auth.Handler

	// Account handles profile management and public profile discovery.
	Account *account.Handler

	// Recipe handles the recipe catalogue, likes, and favorites.
	Recipe *recipe.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, blocklist middleware.TokenBlocklist, collector *metrics.Metrics, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, blocklist))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration plus the
	// Prometheus scrape target.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", h.Metrics)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix. Each mount
	// is instrumented with its prefix as the route label to keep metric
	// cardinality bounded.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", collector.Instrument("/api/v1/auth", h.Auth.Routes()))
		api.Mount("/recipes", collector.Instrument("/api/v1/recipes", h.Recipe.Routes()))
		api.Mount("/users", collector.Instrument("/api/v1/users", userRoutes(h.Account)))
	})

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
		},
	}
}

// userRoutes assembles the /users subtree. The /me endpoints sit behind
// RequireAuth while public profile lookup stays anonymous.
func userRoutes(handler *account.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(private chi.Router) {
		private.Use(middleware.RequireAuth)
		handler.RegisterRoutes(private)
	})

	handler.RegisterPublicRoutes(router)

	return router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
