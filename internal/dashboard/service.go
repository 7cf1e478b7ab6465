// internal/dashboard/service.go
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/storage/snapshot"
)

// Config controls the refresh loop.
type Config struct {
	Symbols         []string
	RefreshInterval time.Duration
}

// Service keeps one snapshot per tracked symbol fresh. A single
// instance covers every symbol; per-symbol commit sequences stop a
// slow refresh from overwriting a newer one.
type Service struct {
	source  Source
	store   snapshot.Store
	metrics *metrics.Registry
	log     *zap.Logger

	symbols  []string
	interval time.Duration

	seq        atomic.Uint64
	cycles     atomic.Uint64
	staleDrops atomic.Uint64

	// commitMu covers the sequence check and the store write together
	// so a stale snapshot can never land after a newer one.
	commitMu sync.Mutex
	lastSeq  map[string]uint64

	stateMu     sync.RWMutex
	running     bool
	cancel      context.CancelFunc
	lastRefresh time.Time

	now func() time.Time
}

// New creates a dashboard service. An empty config falls back to a
// single AAPL view refreshed every 30 seconds.
func New(cfg Config, source Source, store snapshot.Store, m *metrics.Registry, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	symbols := cfg.Symbols
	if len(symbols) == 0 {
		symbols = []string{"AAPL"}
	}
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Service{
		source:   source,
		store:    store,
		metrics:  m,
		log:      log,
		symbols:  symbols,
		interval: interval,
		lastSeq:  make(map[string]uint64),
		now:      time.Now,
	}
}

// Start runs the refresh loop until ctx is cancelled. The first cycle
// runs immediately so callers never observe an empty store.
func (s *Service) Start(ctx context.Context) error {
	s.stateMu.Lock()
	if s.running {
		s.stateMu.Unlock()
		return fmt.Errorf("dashboard service already running")
	}
	s.running = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stateMu.Unlock()

	s.log.Info("dashboard service starting",
		zap.Strings("symbols", s.symbols),
		zap.Duration("interval", s.interval),
	)

	s.RefreshAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("dashboard service stopping")
			s.stateMu.Lock()
			s.running = false
			s.stateMu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			s.RefreshAll(ctx)
		}
	}
}

// Stop cancels the refresh loop.
func (s *Service) Stop() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Running reports whether the refresh loop is active.
func (s *Service) Running() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.running
}

// Symbols returns the tracked watchlist.
func (s *Service) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// RefreshAll refreshes every tracked symbol in parallel and waits for
// all of them to settle. Each cycle is bounded by the refresh interval
// so a hung upstream cannot stack cycles.
func (s *Service) RefreshAll(ctx context.Context) {
	start := s.now()
	seq := s.seq.Add(1)

	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	var wg sync.WaitGroup
	for _, symbol := range s.symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			s.refreshSymbol(ctx, symbol, seq)
		}(symbol)
	}
	wg.Wait()

	elapsed := s.now().Sub(start)
	s.cycles.Add(1)
	s.stateMu.Lock()
	s.lastRefresh = s.now()
	s.stateMu.Unlock()

	s.metrics.RecordRefresh(elapsed.Seconds())
	s.log.Debug("refresh cycle complete",
		zap.Uint64("sequence", seq),
		zap.Duration("elapsed", elapsed),
	)
}

// Refresh fetches a single symbol outside the regular cycle and
// returns the freshest stored view. When a concurrent refresh commits
// a newer snapshot first, that one wins and is returned.
func (s *Service) Refresh(ctx context.Context, symbol string) (*core.DashboardSnapshot, error) {
	seq := s.seq.Add(1)
	s.refreshSymbol(ctx, symbol, seq)
	return s.store.Get(ctx, symbol)
}

// Snapshot returns the stored view for a symbol, refreshing on demand
// when the symbol has never been fetched.
func (s *Service) Snapshot(ctx context.Context, symbol string) (*core.DashboardSnapshot, error) {
	snap, err := s.store.Get(ctx, symbol)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	return s.Refresh(ctx, symbol)
}

// GetStats exposes loop health for the alert evaluator.
func (s *Service) GetStats() map[string]float64 {
	s.stateMu.RLock()
	lastRefresh := s.lastRefresh
	s.stateMu.RUnlock()

	stats := map[string]float64{
		"symbols":        float64(len(s.symbols)),
		"refresh_cycles": float64(s.cycles.Load()),
		"stale_drops":    float64(s.staleDrops.Load()),
		"connected":      0,
	}
	if r, ok := s.source.(StatusReporter); ok {
		if r.Connected() {
			stats["connected"] = 1
		}
		stats["mock_fallbacks"] = float64(r.Fallbacks())
	}
	if !lastRefresh.IsZero() {
		stats["seconds_since_refresh"] = s.now().Sub(lastRefresh).Seconds()
	}
	return stats
}

// refreshSymbol builds one snapshot from three parallel fetches. All
// three settle before the commit, so a snapshot never mixes data from
// different cycles.
func (s *Service) refreshSymbol(ctx context.Context, symbol string, seq uint64) {
	snap := &core.DashboardSnapshot{
		Symbol:   symbol,
		Sequence: seq,
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		points, err := s.source.MarketData(ctx, symbol)
		if err != nil {
			s.log.Warn("market data fetch failed", zap.String("symbol", symbol), zap.Error(err))
			return
		}
		snap.MarketData = points
	}()
	go func() {
		defer wg.Done()
		analysis, err := s.source.PullbackAnalysis(ctx, symbol)
		if err != nil {
			s.log.Warn("analysis fetch failed", zap.String("symbol", symbol), zap.Error(err))
			return
		}
		snap.Analysis = analysis
	}()
	go func() {
		defer wg.Done()
		status, err := s.source.StrategyStatus(ctx, symbol)
		if err != nil {
			s.log.Warn("status fetch failed", zap.String("symbol", symbol), zap.Error(err))
			return
		}
		snap.Status = status
	}()
	wg.Wait()

	snap.Connected = s.sourceConnected()
	snap.RefreshedAt = s.now()

	s.commit(ctx, snap)
}

// commit stores the snapshot unless a newer sequence already won the
// symbol. Returns false when the snapshot was dropped as stale.
func (s *Service) commit(ctx context.Context, snap *core.DashboardSnapshot) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if last, ok := s.lastSeq[snap.Symbol]; ok && snap.Sequence <= last {
		s.staleDrops.Add(1)
		s.metrics.RecordStaleDrop()
		s.log.Debug("dropping stale snapshot",
			zap.String("symbol", snap.Symbol),
			zap.Uint64("sequence", snap.Sequence),
			zap.Uint64("newest", last),
		)
		return false
	}

	if err := s.store.Put(ctx, snap); err != nil {
		s.log.Error("snapshot store write failed",
			zap.String("symbol", snap.Symbol),
			zap.Error(err),
		)
		return false
	}
	s.lastSeq[snap.Symbol] = snap.Sequence
	return true
}

func (s *Service) sourceConnected() bool {
	if r, ok := s.source.(StatusReporter); ok {
		return r.Connected()
	}
	return false
}
