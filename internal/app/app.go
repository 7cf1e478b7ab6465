// Package app assembles the dashboard service, scanner, archiver and
// notification pipeline behind one facade the HTTP server and CLI call
// into. Everything is injected through New; there are no package-level
// singletons.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/alert"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/job"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/config"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/dashboard"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/mockdata"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier/email"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier/telegram"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier/webhook"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/router"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/storage/archive"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/storage/snapshot"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/strategyapi"
)

// App is the application orchestrator.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Registry

	source    dashboard.Source
	dashboard *dashboard.Service
	store     snapshot.Store
	jobs      *job.Store
	archiver  *archive.Archiver
	notifiers *notifier.Registry
	router    *router.Router

	alerts     *alert.Evaluator
	alertRules []alert.Rule

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
}

// New builds the application from configuration. The returned App owns
// the snapshot store; call Close when done with it.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := metrics.NewRegistry()

	store, err := newSnapshotStore(cfg)
	if err != nil {
		return nil, err
	}

	synth := mockdata.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	var source dashboard.Source = synth
	if cfg.Upstream.Offline {
		logger.Info("offline mode, serving synthetic data only")
	} else {
		client := strategyapi.New(cfg.Upstream.BaseURL,
			strategyapi.WithTimeout(cfg.Upstream.Timeout))
		source = dashboard.NewFallback(client, synth, m, logger)
	}

	dash := dashboard.New(dashboard.Config{
		Symbols:         cfg.Dashboard.Symbols,
		RefreshInterval: cfg.Dashboard.RefreshInterval,
	}, source, store, m, logger)

	jobs := job.NewStore(cfg.Server.MaxJobs,
		time.Duration(cfg.Server.JobTTLHours)*time.Hour)

	archiver, err := newArchiver(cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	notifiers, err := buildNotifiers(cfg.Notifiers)
	if err != nil {
		store.Close()
		return nil, err
	}

	signals := make([]core.Signal, 0, len(cfg.Router.Signals))
	for _, s := range cfg.Router.Signals {
		signals = append(signals, core.Signal(s))
	}
	rt := router.New(router.Config{
		MinConfidence:    cfg.Router.MinConfidence,
		CooldownDuration: time.Duration(cfg.Router.CooldownHours) * time.Hour,
		EnabledSignals:   signals,
	}, notifiers, logger)
	rt.SetMetrics(m)

	a := &App{
		cfg:       cfg,
		log:       logger,
		metrics:   m,
		source:    source,
		dashboard: dash,
		store:     store,
		jobs:      jobs,
		archiver:  archiver,
		notifiers: notifiers,
		router:    rt,
	}

	if cfg.Alerts.Enabled {
		bridges := make([]alert.Notifier, 0, len(notifiers.GetAll()))
		for _, n := range notifiers.GetAll() {
			bridges = append(bridges, alertBridge{n: n})
		}
		a.alerts = alert.NewEvaluator(bridges)
		a.alertRules = make([]alert.Rule, 0, len(cfg.Alerts.Rules))
		for _, r := range cfg.Alerts.Rules {
			a.alertRules = append(a.alertRules, alert.Rule{
				Name:     r.Name,
				Expr:     r.Expr,
				For:      r.For,
				Severity: r.Severity,
				Message:  r.Message,
			})
		}
	}

	return a, nil
}

func newSnapshotStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return snapshot.NewMemoryStore(cfg.Cache.TTL), nil
	case "redis":
		return snapshot.NewRedis(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password,
			cfg.Cache.Redis.DB, cfg.Cache.TTL), nil
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend))
	}
}

func newArchiver(cfg *config.Config, log *zap.Logger) (*archive.Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	var storage archive.Storage
	var err error
	switch cfg.Archive.Type {
	case "localfs":
		storage, err = archive.NewLocalFS(cfg.Archive.Path)
	case "s3":
		storage, err = archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		err = core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", cfg.Archive.Type))
	}
	if err != nil {
		return nil, err
	}
	return archive.NewArchiver(storage, cfg.Archive.Type, log), nil
}

func buildNotifiers(configs map[string]config.NotifierConfig) (*notifier.Registry, error) {
	registry := notifier.NewRegistry()
	for name, nc := range configs {
		if !nc.Enabled {
			continue
		}
		n, err := buildNotifier(name, nc)
		if err != nil {
			return nil, err
		}
		// Init validates the fields the constructor was handed.
		if err := n.Init(notifier.Config{Type: name}); err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		if err := registry.Register(n); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func buildNotifier(name string, nc config.NotifierConfig) (notifier.Notifier, error) {
	switch name {
	case "telegram":
		return telegram.New(nc.BotToken, nc.ChatID), nil
	case "webhook":
		return webhook.New(nc.URL, nc.Headers), nil
	case "email":
		return email.New(nc.Host, nc.Port, nc.Username, nc.Password, nc.From, nc.To), nil
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown notifier %q", name))
	}
}

// alertBridge lets the alert evaluator deliver through a signal notifier.
type alertBridge struct {
	n notifier.Notifier
}

func (b alertBridge) Name() string            { return b.n.Name() }
func (b alertBridge) Notify(msg string) error { return b.n.Alert(msg) }

// Start launches the dashboard refresh loop and, when configured, the
// alert evaluator. It returns immediately; Stop cancels both.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app already running")
	}
	a.running = true
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.log.Info("app starting",
		zap.Strings("symbols", a.dashboard.Symbols()),
		zap.Bool("offline", a.cfg.Upstream.Offline),
		zap.Strings("notifiers", a.notifiers.Names()),
	)

	go func() {
		if err := a.dashboard.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("dashboard service stopped", zap.Error(err))
		}
	}()

	a.router.StartCleanupRoutine(ctx, time.Hour)

	if a.alerts != nil {
		go a.alertLoop(ctx)
	}

	return nil
}

// Stop cancels the background loops.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	a.running = false
}

// Close releases the snapshot store. Call after Stop.
func (a *App) Close() error {
	return a.store.Close()
}

// alertLoop evaluates the configured rules against dashboard health on
// a fixed interval.
func (a *App) alertLoop(ctx context.Context) {
	interval := a.cfg.Alerts.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.alerts.SetMetrics(a.dashboard.GetStats())
			if fired := a.alerts.EvaluateAll(a.alertRules); fired > 0 {
				a.log.Info("operational alerts fired", zap.Int("count", fired))
			}
		}
	}
}

// RunScan sweeps a symbol list for pullback setups. With no explicit
// symbols the universe is expanded, defaulting to the configured one.
// Results are archived and routed to notifiers before returning.
func (a *App) RunScan(ctx context.Context, universe string, symbols []string, minConfidence int) (*core.ScanResult, error) {
	start := time.Now()

	label := "custom"
	if len(symbols) == 0 {
		name := universe
		if name == "" {
			name = a.cfg.Scanner.Universe
		}
		if name == "" {
			name = "nasdaq"
		}
		symbols = core.Universe(name)
		if symbols == nil {
			return nil, core.WrapError(core.ErrUniverseUnknown,
				fmt.Errorf("universe %q", name))
		}
		label = strings.ToLower(name)
	}
	if minConfidence <= 0 {
		minConfidence = int(a.cfg.Scanner.MinConfidence)
	}

	result, err := a.scanBatches(ctx, symbols, minConfidence)
	if err != nil {
		a.metrics.RecordScan("error", time.Since(start).Seconds())
		return nil, err
	}
	a.metrics.RecordScan("success", time.Since(start).Seconds())

	a.log.Info("scan complete",
		zap.String("universe", label),
		zap.Int("scanned", result.TotalScanned),
		zap.Int("opportunities", result.OpportunitiesFound),
		zap.Duration("elapsed", time.Since(start)),
	)

	a.archiveScan(ctx, label, result)

	if len(result.Opportunities) > 0 {
		if err := a.router.RouteBatch(result.Opportunities); err != nil {
			a.log.Warn("routing scan opportunities", zap.Error(err))
		}
	}

	return result, nil
}

// scanBatches splits the sweep across the configured worker count and
// merges the partial results best-confidence first.
func (a *App) scanBatches(ctx context.Context, symbols []string, minConfidence int) (*core.ScanResult, error) {
	workers := a.cfg.Scanner.Workers
	if workers < 1 {
		workers = 1
	}
	batches := chunk(symbols, workers)

	results := make([]*core.ScanResult, len(batches))
	errs := make([]error, len(batches))

	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []string) {
			defer wg.Done()
			results[i], errs[i] = a.source.ScanPullbacks(ctx, batch, minConfidence)
		}(i, batch)
	}
	wg.Wait()

	merged := &core.ScanResult{Opportunities: []core.PullbackAnalysis{}}
	var firstErr error
	for i := range batches {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		merged.Opportunities = append(merged.Opportunities, results[i].Opportunities...)
		merged.TotalScanned += results[i].TotalScanned
		merged.OpportunitiesFound += results[i].OpportunitiesFound
	}
	if firstErr != nil && merged.TotalScanned == 0 {
		return nil, firstErr
	}

	sort.SliceStable(merged.Opportunities, func(i, j int) bool {
		return merged.Opportunities[i].Confidence > merged.Opportunities[j].Confidence
	})
	return merged, nil
}

// chunk splits symbols into at most n contiguous batches.
func chunk(symbols []string, n int) [][]string {
	if len(symbols) == 0 {
		return nil
	}
	if n > len(symbols) {
		n = len(symbols)
	}
	size := (len(symbols) + n - 1) / n

	var out [][]string
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		out = append(out, symbols[start:end])
	}
	return out
}

func (a *App) archiveScan(ctx context.Context, universe string, result *core.ScanResult) {
	if a.archiver == nil {
		return
	}
	key, err := a.archiver.SaveScan(ctx, universe, result)
	if err != nil {
		a.metrics.RecordArchive(a.archiver.Backend(), "error")
		a.log.Warn("archiving scan", zap.Error(err))
		return
	}
	a.metrics.RecordArchive(a.archiver.Backend(), "success")
	a.log.Debug("scan archived", zap.String("key", key))
}

// RunBacktest runs a strategy backtest through the provider chain and
// archives the result.
func (a *App) RunBacktest(ctx context.Context, symbol, period string, initialCapital float64) (*core.BacktestResult, error) {
	result, err := a.source.StrategyBacktest(ctx, symbol, period, initialCapital)
	if err != nil {
		return nil, err
	}

	if a.archiver != nil {
		key, err := a.archiver.SaveBacktest(ctx, result)
		if err != nil {
			a.metrics.RecordArchive(a.archiver.Backend(), "error")
			a.log.Warn("archiving backtest", zap.Error(err))
		} else {
			a.metrics.RecordArchive(a.archiver.Backend(), "success")
			a.log.Debug("backtest archived", zap.String("key", key))
		}
	}

	return result, nil
}

// RunLegacyBacktest proxies the batch backtest the first dashboard
// generation polled.
func (a *App) RunLegacyBacktest(ctx context.Context, symbol, period string) ([]core.LegacyBacktestRow, error) {
	return a.source.LegacyBacktest(ctx, symbol, period)
}

// Dashboard returns the snapshot service.
func (a *App) Dashboard() *dashboard.Service { return a.dashboard }

// Source returns the strategy data provider chain.
func (a *App) Source() dashboard.Source { return a.source }

// Jobs returns the async job store.
func (a *App) Jobs() *job.Store { return a.jobs }

// Metrics returns the metrics registry.
func (a *App) Metrics() *metrics.Registry { return a.metrics }

// Notifiers returns the notifier registry.
func (a *App) Notifiers() *notifier.Registry { return a.notifiers }

// Router returns the opportunity router.
func (a *App) Router() *router.Router { return a.router }

// Archiver returns the result archiver, nil when archiving is disabled.
func (a *App) Archiver() *archive.Archiver { return a.archiver }

// GetStats returns application statistics.
func (a *App) GetStats() map[string]any {
	a.mu.RLock()
	running := a.running
	a.mu.RUnlock()

	return map[string]any{
		"running":          running,
		"offline":          a.cfg.Upstream.Offline,
		"notifiers":        len(a.notifiers.GetAll()),
		"scan_jobs_active": a.jobs.Active("scan"),
		"dashboard":        a.dashboard.GetStats(),
		"router":           a.router.GetStats(),
	}
}
