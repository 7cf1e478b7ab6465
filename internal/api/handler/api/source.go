// Package api holds the JSON handlers for the dashboard BFF. The
// endpoints carried over from the strategy API keep its wire format
// byte for byte; the endpoints this service adds use the data/meta
// envelope from the response package.
package api

import (
	"context"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// defaultSymbol matches the strategy API's own query default.
const defaultSymbol = "SPY"

// Source is the slice of the strategy data provider the proxy handlers
// read from. The fallback-wrapped client satisfies it, as do the bare
// client and the synthesizer.
type Source interface {
	MarketData(ctx context.Context, symbol string) ([]core.MarketDataPoint, error)
	PullbackAnalysis(ctx context.Context, symbol string) (*core.PullbackAnalysis, error)
	StrategyStatus(ctx context.Context, symbol string) (*core.StrategyStatus, error)
}
