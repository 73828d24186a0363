// Package server exposes the repositories as a JSON REST API consumed by
// the browser front end.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"

	"checklist/internal/repository"
	"checklist/store"
)

// Config carries the server settings resolved from viper.
type Config struct {
	Port           int
	StaticDir      string
	AllowedOrigins []string
}

// Server serves the REST API and, optionally, the static front end.
type Server struct {
	repos   *repository.Repositories
	store   store.DocumentStore
	logger  *log.Logger
	origins map[string]struct{}
	server  *http.Server
}

// New builds a server; it does not start listening.
func New(cfg Config, st store.DocumentStore, repos *repository.Repositories, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		repos:   repos,
		store:   st,
		logger:  logger,
		origins: make(map[string]struct{}, len(cfg.AllowedOrigins)),
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = struct{}{}
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.routes(cfg.StaticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// routes wires up all API endpoints and the optional static file server.
func (s *Server) routes(staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/backup", s.handleBackup)

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", s.handleListLists)
			r.Post("/", s.handleCreateList)
			r.Get("/{id}", s.handleGetList)
			r.Put("/{id}", s.handleUpdateList)
			r.Delete("/{id}", s.handleDeleteList)
			r.Get("/{id}/stats", s.handleListStats)
			r.Get("/{id}/tasks", s.handleListTasks)
			r.Post("/{id}/tasks", s.handleCreateTask)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleAllTasks)
			r.Get("/search", s.handleSearchTasks)
			r.Get("/stats", s.handleTaskStats)
			r.Get("/{id}", s.handleGetTask)
			r.Patch("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
			r.Patch("/{id}/toggle", s.handleToggleTask)
		})
	})

	if staticDir != "" {
		httpFs := afero.NewHttpFs(afero.NewOsFs())
		r.Handle("/*", http.FileServer(httpFs.Dir(staticDir)))
	}
	return r
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("API server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requestLogger records one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
