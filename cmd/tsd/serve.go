package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/app"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/config"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/logger"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the configured file, or falls back to defaults when
// no file was given. The bool reports whether defaults were used.
func loadConfig() (*config.Config, bool, error) {
	if cfgFile == "" {
		return config.Defaults(), true, nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, false, fmt.Errorf("loading config: %w", err)
	}
	return cfg, false, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, usedDefaults, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	log := logger.Must(debug || cfg.Logging.Development, cfg.Logging.Level)
	defer log.Sync()

	if usedDefaults {
		log.Warn("no config file specified, using defaults")
	}

	application, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("starting app: %w", err)
	}
	defer application.Stop()

	// The registry always exists; the flag controls whether the server
	// mounts the scrape endpoint and request middleware.
	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = application.Metrics()
	}

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
		Version:     Version,
	}, api.Dependencies{
		Source:    application.Source(),
		Dashboard: application.Dashboard(),
		Scans:     application,
		Backtests: application,
		Jobs:      application.Jobs(),
		Metrics:   reg,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("starting dashboard server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("offline", cfg.Upstream.Offline),
	)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down dashboard server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}
