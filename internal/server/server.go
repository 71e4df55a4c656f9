package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quizdeck/quizdeck/internal/audit"
	"github.com/quizdeck/quizdeck/internal/handler"
	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/server/middleware"
	"github.com/quizdeck/quizdeck/internal/service"
	"github.com/quizdeck/quizdeck/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	LoginPerMinute  int
	RequestsPerMin  int
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		LoginPerMinute:  10,
		RequestsPerMin:  300,
	}
}

// Server is the top-level HTTP server. It owns the chi router, the store,
// the auth service, and the audit recorder.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	rec        *audit.Recorder
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server with all routes and middleware wired, ready to
// listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, authSvc *service.AuthService, rec *audit.Recorder, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   st,
		authSvc: authSvc,
		rec:     rec,
		logger:  logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))
	if s.cfg.RequestsPerMin > 0 {
		r.Use(middleware.RateLimit(s.cfg.RequestsPerMin))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	admins := handler.NewAdminHandler(s.store, s.authSvc, s.rec)
	categories := handler.NewCategoryHandler(s.store, s.rec)
	packs := handler.NewPackHandler(s.store, s.rec)
	questions := handler.NewQuestionHandler(s.store, s.rec)
	games := handler.NewGameHandler(s.store)
	stats := handler.NewStatsHandler(s.store)

	r.Route("/api", func(r chi.Router) {

		// Login gets its own tighter per-IP budget.
		r.Group(func(r chi.Router) {
			r.Use(middleware.LoginRateLimit(s.cfg.LoginPerMinute))
			r.Post("/admin/login", admins.Login)
		})

		// Public catalog and gameplay routes, called by the game client.
		r.Get("/categories", categories.List)
		r.Get("/categories/{id}", categories.Get)
		r.Get("/challenge-packs", packs.List)
		r.Get("/challenge-packs/{id}", packs.Get)
		r.Get("/challenge-packs/download/{id}", packs.Download)
		r.Get("/questions/random", questions.Random)
		r.Get("/questions/{id}", questions.Get)
		r.Post("/games", games.Create)
		r.Post("/games/save", games.Save)
		r.Get("/games", games.List)
		r.Get("/games/{id}", games.Get)
		r.Get("/statistics/games", stats.Games)
		r.Get("/statistics/general", stats.General)

		// Everything below needs a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authSvc))

			r.Post("/admin/logout", admins.Logout)
			r.Get("/admin/profile", admins.Profile)
			r.Put("/admin/profile", admins.UpdateProfile)
			r.Get("/admin/logs", admins.Logs)

			r.Post("/categories", categories.Create)
			r.Put("/categories/{id}", categories.Update)
			r.Delete("/categories/{id}", categories.Delete)

			r.Post("/challenge-packs", packs.Create)
			r.Put("/challenge-packs/{id}", packs.Update)
			r.Delete("/challenge-packs/{id}", packs.Delete)

			r.Get("/questions", questions.List)
			r.Post("/questions", questions.Create)
			r.Put("/questions/{id}", questions.Update)
			r.Delete("/questions/{id}", questions.Delete)

			r.Get("/statistics/dashboard", stats.Dashboard)
			r.Get("/statistics/categories", stats.Categories)
			r.Get("/statistics/packs", stats.Packs)
			r.Get("/statistics/questions", stats.Questions)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(s.rec, model.RoleSuperAdmin))
				r.Post("/admin/create", admins.Create)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(s.rec, model.RoleSuperAdmin, model.RoleAdmin))
				r.Post("/admin/ai-generate", admins.AIGenerate)
			})
		})
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the database is
// reachable, 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"degraded","error":%q}`, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or
// SIGTERM is received, then drains in-flight requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
