// Package api provides the habitlog HTTP API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/habitlog/habitlog/pkg/config"
	"github.com/habitlog/habitlog/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux      *http.ServeMux
	server   *http.Server
	logger   *slog.Logger
	journals *JournalHandler
	progress *ProgressHandler
	auth     *Authenticator
	health   *observability.HealthRegistry
	metrics  *observability.InMemoryMetrics
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// ServerConfigFrom derives the server configuration from application config.
func ServerConfigFrom(cfg *config.Config) ServerConfig {
	sc := DefaultServerConfig()
	if cfg.HTTPAddr != "" {
		sc.Addr = cfg.HTTPAddr
	}
	if cfg.HTTPReadTimeout > 0 {
		sc.ReadTimeout = cfg.HTTPReadTimeout
	}
	if cfg.HTTPWriteTimeout > 0 {
		sc.WriteTimeout = cfg.HTTPWriteTimeout
	}
	return sc
}

// Handlers groups the endpoint handlers mounted by the server.
type Handlers struct {
	Journals *JournalHandler
	Progress *ProgressHandler
	Auth     *Authenticator
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handlers Handlers, health *observability.HealthRegistry, metrics *observability.InMemoryMetrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewInMemoryMetrics()
	}
	if health == nil {
		health = observability.NewHealthRegistry(5 * time.Second)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		journals: handlers.Journals,
		progress: handlers.Progress,
		auth:     handlers.Auth,
		health:   health,
		metrics:  metrics,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.mux.Handle("POST /api/v1/journals/structured", s.auth.Middleware(http.HandlerFunc(s.journals.SubmitStructured)))
	s.mux.Handle("DELETE /api/v1/journals/{id}", s.auth.Middleware(http.HandlerFunc(s.journals.Delete)))

	s.mux.Handle("GET /api/v1/progress/{categoryID}", s.auth.Middleware(http.HandlerFunc(s.progress.Get)))
	s.mux.Handle("POST /api/v1/progress/{categoryID}/refresh", s.auth.Middleware(http.HandlerFunc(s.progress.Refresh)))
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return requestID(instrument(s.logger, s.metrics, s.mux))
}

// handleHealth reports dependency health. Unhealthy critical checks yield 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.Check(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

// Start starts the API server.
func (s *Server) Start() error {
	if !s.auth.Enabled() {
		s.logger.Warn("JWT_SECRET not set; API requests run as the local user")
	}
	s.logger.Info("starting habitlog API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down habitlog API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}
