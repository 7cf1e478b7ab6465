// Package dashboard keeps a last-known-good view of every tracked
// symbol fresh on a fixed interval, degrading to synthetic data when
// the strategy API is unavailable.
package dashboard

import (
	"context"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Source is the data surface the dashboard reads from. Both the live
// strategy API client and the offline synthesizer implement it.
type Source interface {
	MarketData(ctx context.Context, symbol string) ([]core.MarketDataPoint, error)
	PullbackAnalysis(ctx context.Context, symbol string) (*core.PullbackAnalysis, error)
	ScanPullbacks(ctx context.Context, symbols []string, minConfidence int) (*core.ScanResult, error)
	StrategyBacktest(ctx context.Context, symbol, period string, initialCapital float64) (*core.BacktestResult, error)
	StrategyStatus(ctx context.Context, symbol string) (*core.StrategyStatus, error)
	LegacyBacktest(ctx context.Context, symbol, period string) ([]core.LegacyBacktestRow, error)
}

// StatusReporter is implemented by sources that know whether they are
// serving live upstream data. Sources without it are treated as
// disconnected, which is what a synthesizer-only deployment is.
type StatusReporter interface {
	Connected() bool
	Fallbacks() uint64
}
