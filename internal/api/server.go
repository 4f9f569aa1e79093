// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Every request passes through exactly one authorization point, [middleware.Gate].
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/castly/internal/dashboard"
	"github.com/taibuivan/castly/internal/platform/config"
	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/middleware"
	"github.com/taibuivan/castly/internal/platform/route"
	"github.com/taibuivan/castly/internal/platform/session"
	"github.com/taibuivan/castly/internal/users/account"
	"github.com/taibuivan/castly/internal/users/auth"
	"github.com/taibuivan/castly/internal/users/role"
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
type Handlers struct {
	// Landing is the public "/" page anonymous traffic is redirected to.
	Landing http.HandlerFunc

	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Auth handles sign-up, sign-in, sign-out and check-email.
	Auth *auth.Handler

	// Account handles the caller's profile and the admin role grant.
	Account *account.Handler

	// Role handles role switch, reset and the current identity.
	Role *role.Handler

	// Dashboard serves the role dashboards and /api/v1/me.
	Dashboard *dashboard.Handler
}

// # Session Transport

// SessionDependencies carries what the session and gate middleware need.
type SessionDependencies struct {
	Codec       *session.Codec
	Cookies     session.CookieOptions
	Classifier  *route.Classifier
	Revocations middleware.SessionRevocations
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, sessions SessionDependencies, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// The session store is acquired before the access logger so the log line
	// sees the identity a handler staged.
	r.Use(middleware.RequestID())
	r.Use(session.Middleware(sessions.Codec, sessions.Cookies))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.RevokedSessions(sessions.Revocations))
	r.Use(middleware.Gate(sessions.Classifier))

	// # Infrastructure Endpoints
	r.Get(constants.LandingPath, h.Landing)
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Dashboards
	r.Mount(constants.DashboardPrefix, h.Dashboard.Routes())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/account", h.Account.Routes())
		api.Mount("/admin", h.Account.AdminRoutes())
		api.Mount("/roles", h.Role.Routes())
		api.Get("/me", h.Dashboard.Me)
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

// Handler exposes the routed middleware chain.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
