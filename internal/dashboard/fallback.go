// internal/dashboard/fallback.go
package dashboard

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
)

// Fallback serves from the live client and silently degrades to the
// backup source when a call fails. As long as the backup cannot fail,
// callers never see an error from any accessor.
type Fallback struct {
	primary Source
	backup  Source
	metrics *metrics.Registry
	log     *zap.Logger

	connected atomic.Bool
	fallbacks atomic.Uint64
}

// NewFallback wraps primary with backup. The connected flag starts
// true and tracks the outcome of the most recent primary call.
func NewFallback(primary, backup Source, m *metrics.Registry, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fallback{
		primary: primary,
		backup:  backup,
		metrics: m,
		log:     log,
	}
	f.connected.Store(true)
	return f
}

// Connected reports whether the most recent upstream call succeeded.
func (f *Fallback) Connected() bool {
	return f.connected.Load()
}

// Fallbacks returns how many calls were served from the backup source.
func (f *Fallback) Fallbacks() uint64 {
	return f.fallbacks.Load()
}

func (f *Fallback) MarketData(ctx context.Context, symbol string) ([]core.MarketDataPoint, error) {
	points, err := f.primary.MarketData(ctx, symbol)
	if err == nil {
		f.markUp("market_data")
		return points, nil
	}
	f.markDown("market_data", err)
	return f.backup.MarketData(ctx, symbol)
}

func (f *Fallback) PullbackAnalysis(ctx context.Context, symbol string) (*core.PullbackAnalysis, error) {
	analysis, err := f.primary.PullbackAnalysis(ctx, symbol)
	if err == nil {
		f.markUp("pullback_analysis")
		return analysis, nil
	}
	f.markDown("pullback_analysis", err)
	return f.backup.PullbackAnalysis(ctx, symbol)
}

func (f *Fallback) ScanPullbacks(ctx context.Context, symbols []string, minConfidence int) (*core.ScanResult, error) {
	result, err := f.primary.ScanPullbacks(ctx, symbols, minConfidence)
	if err == nil {
		f.markUp("pullback_scanner")
		return result, nil
	}
	f.markDown("pullback_scanner", err)
	return f.backup.ScanPullbacks(ctx, symbols, minConfidence)
}

func (f *Fallback) StrategyBacktest(ctx context.Context, symbol, period string, initialCapital float64) (*core.BacktestResult, error) {
	result, err := f.primary.StrategyBacktest(ctx, symbol, period, initialCapital)
	if err == nil {
		f.markUp("strategy_backtest")
		return result, nil
	}
	f.markDown("strategy_backtest", err)
	return f.backup.StrategyBacktest(ctx, symbol, period, initialCapital)
}

func (f *Fallback) StrategyStatus(ctx context.Context, symbol string) (*core.StrategyStatus, error) {
	status, err := f.primary.StrategyStatus(ctx, symbol)
	if err == nil {
		f.markUp("strategy_status")
		return status, nil
	}
	f.markDown("strategy_status", err)
	return f.backup.StrategyStatus(ctx, symbol)
}

func (f *Fallback) LegacyBacktest(ctx context.Context, symbol, period string) ([]core.LegacyBacktestRow, error) {
	rows, err := f.primary.LegacyBacktest(ctx, symbol, period)
	if err == nil {
		f.markUp("legacy_backtest")
		return rows, nil
	}
	f.markDown("legacy_backtest", err)
	return f.backup.LegacyBacktest(ctx, symbol, period)
}

func (f *Fallback) markUp(operation string) {
	f.connected.Store(true)
	f.metrics.RecordUpstream(operation, true)
	f.metrics.SetUpstreamConnected(true)
}

func (f *Fallback) markDown(operation string, err error) {
	f.connected.Store(false)
	f.fallbacks.Add(1)
	f.metrics.RecordUpstream(operation, false)
	f.metrics.SetUpstreamConnected(false)
	f.metrics.RecordFallback(operation)
	f.log.Warn("upstream call failed, serving synthetic data",
		zap.String("operation", operation),
		zap.Error(err),
	)
}
