// Package server wires the HTTP stack together: router, middleware, route
// groups, and the dependency chain from database to handlers. It is the
// composition root; main.go only loads config and calls Start.
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

	"github.com/sakif/survivaldisc/internal/annotate"
	"github.com/sakif/survivaldisc/internal/auth"
	"github.com/sakif/survivaldisc/internal/config"
	"github.com/sakif/survivaldisc/internal/handler"
	"github.com/sakif/survivaldisc/internal/middleware"
	sqliteRepo "github.com/sakif/survivaldisc/internal/repository/sqlite"
	"github.com/sakif/survivaldisc/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown, after in-flight requests drain.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
// repositories → services → handlers → routes. The annotation provider is
// injected by main so the server doesn't care whether it is the static
// fallback or a live API client.
func New(cfg *config.Config, annotator annotate.Provider, logger *slog.Logger) (*Server, error) {
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

	if err := s.setupRoutes(annotator); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the three route groups: public auth,
// JWT-protected /api, and the admin subtree behind the role gate.
func (s *Server) setupRoutes(annotator annotate.Provider) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	sessionService := service.NewSessionService(s.db.Sessions(), s.logger)
	accountService := service.NewAccountService(
		s.db.Accounts(),
		sessionService,
		passwords,
		tokens,
		s.cfg.AuthDelay,
		s.logger,
	)
	fileService := service.NewFileService(s.db.Files(), s.cfg.CascadeDelete, s.logger)
	statsService := service.NewStatsService(s.db.Accounts(), s.db.Files(), s.logger)

	authHandler := handler.NewAuthHandler(accountService, sessionService, tokens.TTL(), s.logger)
	driveHandler := handler.NewDriveHandler(fileService, accountService, annotator, s.logger)
	adminHandler := handler.NewAdminHandler(accountService, statsService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		// The session probe is public: the UI calls it before it has a token.
		r.Get("/session", authHandler.HandleSession)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/logout", authHandler.HandleLogout)
			r.Get("/me", authHandler.HandleMe)
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/welcome", driveHandler.HandleWelcome)

		r.Get("/files", driveHandler.HandleBrowse)
		r.Put("/files", driveHandler.HandleSave)
		r.Post("/files", driveHandler.HandleCreate)
		r.Delete("/files/{id}", driveHandler.HandleDelete)
		r.Get("/files/{id}/share", driveHandler.HandleShare)
		r.Get("/files/{id}/analysis", driveHandler.HandleAnalysis)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/users", adminHandler.HandleListUsers)
			r.Get("/stats", adminHandler.HandleStats)
		})
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight requests
// and closes the database. Closing the database last flushes the WAL and
// releases the file lock.
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
	}

	s.logger.Info("server stopped")
	return nil
}
