// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	handler "github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/handler/api"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/job"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/middleware"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
	"go.uber.org/zap"
)

// bannerMessage is what the dashboard probes for on load.
const bannerMessage = "Trading Strategy Dashboard API is running"

// Server is the HTTP server fronting the dashboard.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	version    string
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string // empty disables auth
	MetricsPath string
	Version     string
}

// Dependencies are the application services the server exposes.
// Metrics may be nil; everything else is required.
type Dependencies struct {
	Source    handler.Source
	Dashboard handler.Dashboard
	Scans     handler.ScanRunner
	Backtests handler.BacktestRunner
	Jobs      *job.Store
	Metrics   *metrics.Registry
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Source == nil || deps.Dashboard == nil || deps.Scans == nil ||
		deps.Backtests == nil || deps.Jobs == nil {
		return nil, fmt.Errorf("missing server dependency")
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:  logger,
		mux:     mux,
		version: version,
	}

	s.setupRoutes(cfg, deps)

	// Logging wraps metrics so every request is logged, scrapes included.
	var root http.Handler = mux
	if deps.Metrics != nil {
		root = metrics.HTTPMiddleware(deps.Metrics)(root)
	}
	root = metrics.LoggingMiddleware(logger)(root)
	s.httpServer.Handler = root

	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	market := handler.NewMarketHandler(deps.Source)
	analysis := handler.NewAnalysisHandler(deps.Source)
	status := handler.NewStatusHandler(deps.Source)
	scanner := handler.NewScannerHandler(deps.Scans, deps.Jobs, deps.Metrics)
	backtest := handler.NewBacktestHandler(deps.Backtests)
	dashboard := handler.NewDashboardHandler(deps.Dashboard)
	symbols := handler.NewSymbolsHandler()

	api := http.NewServeMux()
	api.HandleFunc("/api/market-data", market.Get)
	api.HandleFunc("/api/pullback-analysis/", func(w http.ResponseWriter, r *http.Request) {
		analysis.Get(w, r, strings.TrimPrefix(r.URL.Path, "/api/pullback-analysis/"))
	})
	api.HandleFunc("/api/pullback-scanner", scanner.Scan)
	api.HandleFunc("/api/strategy-backtest/", func(w http.ResponseWriter, r *http.Request) {
		backtest.Get(w, r, strings.TrimPrefix(r.URL.Path, "/api/strategy-backtest/"))
	})
	api.HandleFunc("/api/strategy-status", status.Get)
	api.HandleFunc("/api/backtest", backtest.Legacy)
	api.HandleFunc("/api/dashboard", dashboard.Get)
	api.HandleFunc("/api/scan", scanner.Create)
	api.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		scanner.JobStatus(w, r, strings.TrimPrefix(r.URL.Path, "/api/jobs/"))
	})
	api.HandleFunc("/api/symbols", symbols.List)

	// The banner and the scrape endpoint stay outside auth; scrapers
	// and load balancers do not send API keys.
	s.mux.Handle("/api/", middleware.APIKeyAuth(cfg.APIKey)(api))
	s.mux.HandleFunc("/", s.handleRoot)
	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle(path, deps.Metrics.Handler())
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// handleRoot serves the service banner the dashboard probes on load.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		response.Error(w, http.StatusNotFound,
			core.WrapError(core.ErrNotFound, fmt.Errorf("path %s", r.URL.Path)))
		return
	}
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}
	response.Raw(w, http.StatusOK, map[string]string{
		"message": bannerMessage,
		"version": s.version,
	})
}
