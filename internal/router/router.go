// Package router fans pullback opportunities out to the configured
// notification channels. An opportunity passes a confidence floor, a
// signal whitelist and a per-symbol cooldown before anything is sent.
package router

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier"
)

// Config tunes the routing filters. An empty EnabledSignals whitelist
// admits every signal.
type Config struct {
	MinConfidence    float64
	CooldownDuration time.Duration
	EnabledSignals   []core.Signal
}

// DefaultConfig routes BUY and STRONG_BUY setups at 75+ confidence with
// a four hour per-symbol cooldown.
func DefaultConfig() Config {
	return Config{
		MinConfidence:    75,
		CooldownDuration: 4 * time.Hour,
		EnabledSignals:   []core.Signal{core.SignalStrongBuy, core.SignalBuy},
	}
}

// Router delivers accepted opportunities to every registered notifier.
// A nil registry turns delivery into a no-op, which keeps scan paths
// usable without any notification config.
type Router struct {
	cfg      Config
	registry *notifier.Registry
	logger   *zap.Logger
	metrics  *metrics.Registry

	mu       sync.RWMutex
	lastSent map[string]time.Time

	now func() time.Time
}

// New builds a router over the given notifier registry.
func New(cfg Config, registry *notifier.Registry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// SetMetrics wires delivery counters. Optional.
func (r *Router) SetMetrics(m *metrics.Registry) {
	r.metrics = m
}

// Route delivers a single opportunity.
func (r *Router) Route(analysis core.PullbackAnalysis) error {
	if !r.admit(analysis) {
		return nil
	}
	r.markSent(analysis.Symbol)

	if r.registry == nil {
		return nil
	}
	failures := r.registry.NotifyAll(analysis)
	r.logFailures("notifier failed", failures)
	r.recordDeliveries(failures)

	r.logger.Info("opportunity routed",
		zap.String("symbol", analysis.Symbol),
		zap.String("signal", string(analysis.Signal)),
		zap.Int("confidence", analysis.Confidence),
		zap.Int("notifiers", len(r.registry.GetAll())),
		zap.Int("failed", len(failures)),
	)
	return nil
}

// RouteBatch delivers a scan's accepted opportunities as one digest.
func (r *Router) RouteBatch(analyses []core.PullbackAnalysis) error {
	var accepted []core.PullbackAnalysis
	for _, analysis := range analyses {
		if r.admit(analysis) {
			accepted = append(accepted, analysis)
			r.markSent(analysis.Symbol)
		}
	}
	if len(accepted) == 0 || r.registry == nil {
		return nil
	}

	failures := r.registry.NotifyAllBatch(accepted)
	r.logFailures("notifier failed on batch", failures)
	r.recordDeliveries(failures)

	r.logger.Info("batch routed",
		zap.Int("total", len(analyses)),
		zap.Int("accepted", len(accepted)),
		zap.Int("failed", len(failures)),
	)
	return nil
}

// admit applies the confidence floor, the signal whitelist and the
// per-symbol cooldown.
func (r *Router) admit(analysis core.PullbackAnalysis) bool {
	ok := float64(analysis.Confidence) >= r.cfg.MinConfidence &&
		r.signalEnabled(analysis.Signal) &&
		!r.inCooldown(analysis.Symbol)
	if !ok {
		r.logger.Debug("opportunity filtered out",
			zap.String("symbol", analysis.Symbol),
			zap.String("signal", string(analysis.Signal)),
			zap.Int("confidence", analysis.Confidence),
		)
	}
	return ok
}

func (r *Router) signalEnabled(sig core.Signal) bool {
	if len(r.cfg.EnabledSignals) == 0 {
		return true
	}
	for _, s := range r.cfg.EnabledSignals {
		if sig == s {
			return true
		}
	}
	return false
}

func (r *Router) inCooldown(symbol string) bool {
	r.mu.RLock()
	last, ok := r.lastSent[symbol]
	r.mu.RUnlock()
	return ok && r.now().Sub(last) < r.cfg.CooldownDuration
}

func (r *Router) markSent(symbol string) {
	r.mu.Lock()
	r.lastSent[symbol] = r.now()
	r.mu.Unlock()
}

func (r *Router) logFailures(msg string, failures map[string]error) {
	for name, err := range failures {
		r.logger.Error(msg, zap.String("notifier", name), zap.Error(err))
	}
}

// recordDeliveries bumps per-notifier counters for one dispatch.
func (r *Router) recordDeliveries(failures map[string]error) {
	if r.metrics == nil {
		return
	}
	for _, n := range r.registry.GetAll() {
		status := "ok"
		if _, failed := failures[n.Name()]; failed {
			status = "error"
		}
		r.metrics.RecordSignalRouted(n.Name(), status)
	}
}

// ClearCooldown lifts the cooldown for one symbol.
func (r *Router) ClearCooldown(symbol string) {
	r.mu.Lock()
	delete(r.lastSent, symbol)
	r.mu.Unlock()
}

// ClearAllCooldowns lifts every active cooldown.
func (r *Router) ClearAllCooldowns() {
	r.mu.Lock()
	r.lastSent = make(map[string]time.Time)
	r.mu.Unlock()
}

// CleanupExpiredCooldowns drops entries older than twice the cooldown
// window and returns how many were removed.
func (r *Router) CleanupExpiredCooldowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry := 2 * r.cfg.CooldownDuration
	now := r.now()
	removed := 0
	for symbol, last := range r.lastSent {
		if now.Sub(last) > expiry {
			delete(r.lastSent, symbol)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine prunes expired cooldown entries on an interval
// until ctx is cancelled.
func (r *Router) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := r.CleanupExpiredCooldowns(); removed > 0 {
					r.logger.Debug("pruned expired cooldowns", zap.Int("removed", removed))
				}
			}
		}
	}()
}

// GetStats reports the active filter settings and cooldown load.
func (r *Router) GetStats() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]any{
		"cooldowns_active": len(r.lastSent),
		"min_confidence":   r.cfg.MinConfidence,
		"cooldown_seconds": r.cfg.CooldownDuration.Seconds(),
		"enabled_signals":  r.cfg.EnabledSignals,
	}
}
