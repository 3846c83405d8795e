// Package http implements the REST and operations endpoints of the bot:
// health probes, Prometheus metrics and a small read/admin API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/challenge-hub/challenge-hub-bot/internal/application/command"
	"github.com/challenge-hub/challenge-hub-bot/internal/application/query"
	"github.com/challenge-hub/challenge-hub-bot/internal/domain/challenge"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// AdminTokenHash - bcrypt hash of the admin API token. Empty disables
	// the admin endpoints.
	AdminTokenHash string

	// EnableMetrics - expose Prometheus metrics at /metrics.
	EnableMetrics bool
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:          "0.0.0.0",
		Port:          8080,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		EnableMetrics: true,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Pinger checks one backing service for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessCheck names a pinger for the /readyz report.
type ReadinessCheck struct {
	Name   string
	Pinger Pinger
}

// Dependencies contains everything the HTTP handlers need.
type Dependencies struct {
	// Queries
	LeaderboardQuery *query.GetLeaderboardHandler

	// Commands
	ApproveSuggestionCmd *command.ApproveSuggestionHandler
	RecordXPCmd          *command.RecordXPHandler

	// Repositories
	SuggestionRepo challenge.Repository

	// ReadinessChecks are probed by /readyz.
	ReadinessChecks []ReadinessCheck

	// Logger for structured logging.
	Logger *slog.Logger

	// Registry for metrics; nil uses the default registry.
	Registry *prometheus.Registry
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP server of the bot.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *serverMetrics

	mu      sync.Mutex
	running bool
}

// NewServer creates a new HTTP server.
func NewServer(config Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	var registerer prometheus.Registerer
	if deps.Registry != nil {
		registerer = deps.Registry
	}

	s := &Server{
		config:  config,
		deps:    deps,
		logger:  deps.Logger.With("component", "http"),
		metrics: newServerMetrics(registerer),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         config.Address(),
		Handler:      s.instrument(mux),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// registerRoutes wires all endpoints.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	if s.config.EnableMetrics {
		if s.deps.Registry != nil {
			mux.Handle("GET /metrics", promhttp.HandlerFor(s.deps.Registry, promhttp.HandlerOpts{}))
		} else {
			mux.Handle("GET /metrics", promhttp.Handler())
		}
	}

	mux.HandleFunc("GET /api/v1/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/v1/suggestions/pending", s.requireAdmin(s.handlePendingSuggestions))
	mux.HandleFunc("POST /api/v1/suggestions/{id}/approve", s.requireAdmin(s.handleApproveSuggestion))
	mux.HandleFunc("POST /api/v1/users/{id}/xp", s.requireAdmin(s.handleGrantXP))
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("http server already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("http server listening", "addr", s.config.Address())

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
