// Package server wires the application together: database, services,
// handlers, middleware, and routes. It is the composition root — every
// dependency is constructed here and nowhere else, so main.go stays
// minimal and the whole stack can be stood up inside a test.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/todolist-api/internal/auth"
	"github.com/sakif/todolist-api/internal/config"
	"github.com/sakif/todolist-api/internal/handler"
	"github.com/sakif/todolist-api/internal/middleware"
	sqliteRepo "github.com/sakif/todolist-api/internal/repository/sqlite"
	"github.com/sakif/todolist-api/internal/service"
)

// seedPassword is the demo account's password. Demo data only exists when
// SEED_DEMO is enabled, which is a development-only setting.
const seedPassword = "test1234"

// Server owns the router and the resources that must be released on
// shutdown. The database connection is closed last, after in-flight
// requests have drained.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives only what it needs: services see repository
// interfaces, handlers see services, and nothing below the handler layer
// touches HTTP.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setup(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// setup constructs services and handlers, seeds demo data when enabled,
// and registers all routes.
//
// Route structure:
//
//	POST   /api/auth/register   public
//	POST   /api/auth/login      public
//	GET    /api/todos           bearer token required
//	POST   /api/todos           bearer token required
//	GET    /api/todos/{id}      bearer token required
//	PUT    /api/todos/{id}      bearer token required
//	PATCH  /api/todos/{id}      bearer token required
//	DELETE /api/todos/{id}      bearer token required
func (s *Server) setup() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTAudience)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	if s.cfg.SeedDemo {
		hash, err := passwords.Hash(seedPassword)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		if err := s.db.SeedDemo(context.Background(), hash); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
		s.logger.Info("demo data seeded")
	}

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	todoService := service.NewTodoService(s.db.Todos(), s.db.Users(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	todoHandler := handler.NewTodoHandler(todoService, s.logger)

	// Middleware order matters: request ID and real IP first, then the
	// access log, then panic recovery innermost so a panic still gets a
	// log line with its request ID.
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/", todoHandler.HandleList)
			r.Post("/", todoHandler.HandleCreate)
			r.Get("/{id}", todoHandler.HandleGetByID)
			r.Put("/{id}", todoHandler.HandleUpdate)
			r.Patch("/{id}", todoHandler.HandlePatch)
			r.Delete("/{id}", todoHandler.HandleDelete)
		})
	})

	return nil
}

// Handler exposes the router, mainly so tests can drive the full stack
// through httptest without opening a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources. Start calls it on the way out;
// callers that never Start (tests) should call it themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, and close the database so the WAL is flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
