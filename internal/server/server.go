// Package server wires the HTTP server: routes, middleware order, the
// dependency graph, and graceful shutdown.
//
// This is the composition root. main.go reads config and hands it here;
// New assembles sqlite.DB → services → handlers and mounts the routes.
// Each layer only receives what it needs: services get the repository
// interface, handlers get the services, nothing reaches around a layer.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/brunocm/login-system/internal/auth"
	"github.com/brunocm/login-system/internal/handler"
	"github.com/brunocm/login-system/internal/middleware"
	sqliteRepo "github.com/brunocm/login-system/internal/repository/sqlite"
	"github.com/brunocm/login-system/internal/service"
)

// Config holds server configuration, built once in main and immutable
// afterwards. Token carries the signing secret, issuer and audience —
// all three are required and validated when the TokenService is built.
type Config struct {
	Port   int
	DBPath string
	Token  auth.TokenConfig
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file
// lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server, assembling the full dependency chain:
//
//	sqlite.DB → AuthService / AccountService → handlers → routes
//
// A bad signing config (short secret, empty issuer or audience) fails
// here, before the server ever listens — misconfiguration is a startup
// error, never a per-request one.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and mounts all route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/register         → create account          (public)
//	POST   /api/auth/login            → issue bearer token      (public)
//	POST   /api/auth/change-password  → replace own password    (auth)
//	GET    /api/auth/home             → greeting                (auth)
//	GET    /api/auth/users            → list projections        (auth + Admin)
//	DELETE /api/auth/users/{id}       → delete account          (auth + Admin)
//
// Middleware order matters: RequestID → RealIP → Recoverer → request log
// globally, then RequireAuth and RequireRole per route group. The role
// gate sits in front of the handler, so an unauthorized request is
// short-circuited before any operation side effect can run.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.Token)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authSvc := service.NewAuthService(s.db, tokens, passwords, s.logger)
	accountSvc := service.NewAccountService(s.db, passwords, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, accountSvc, s.logger)
	accountHandler := handler.NewAccountHandler(accountSvc, s.logger)

	s.router.Route("/api/auth", func(r chi.Router) {
		// Public
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		// Any authenticated caller
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/change-password", authHandler.HandleChangePassword)
			r.Get("/home", authHandler.HandleHome)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Use(auth.RequireRole("Admin"))
			r.Get("/users", accountHandler.HandleList)
			r.Delete("/users/{id}", accountHandler.HandleDelete)
		})
	})

	return nil
}

// Router exposes the configured router, mainly for httptest in handler
// tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
