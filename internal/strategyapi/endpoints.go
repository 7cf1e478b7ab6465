package strategyapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Health reports the strategy API banner from GET /.
type Health struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Health checks that the strategy API is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// MarketData fetches the recent intraday chart points for a symbol.
func (c *Client) MarketData(ctx context.Context, symbol string) ([]core.MarketDataPoint, error) {
	if !core.ValidSymbol(symbol) {
		return nil, core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol))
	}

	var env marketDataEnvelope
	query := url.Values{"symbol": {symbol}}
	if err := c.getJSON(ctx, "/api/market-data", query, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// PullbackAnalysis fetches the six-criteria evaluation for a symbol.
func (c *Client) PullbackAnalysis(ctx context.Context, symbol string) (*core.PullbackAnalysis, error) {
	if !core.ValidSymbol(symbol) {
		return nil, core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol))
	}

	var env analysisEnvelope
	if err := c.getJSON(ctx, "/api/pullback-analysis/"+url.PathEscape(symbol), nil, &env); err != nil {
		return nil, err
	}
	return &env.Analysis, nil
}

// ScanPullbacks sweeps symbols for setups at or above minConfidence.
// An empty symbol list lets the upstream fall back to its default
// universe.
func (c *Client) ScanPullbacks(ctx context.Context, symbols []string, minConfidence int) (*core.ScanResult, error) {
	query := url.Values{}
	for _, s := range symbols {
		if !core.ValidSymbol(s) {
			return nil, core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", s))
		}
		query.Add("symbols", s)
	}
	query.Set("min_confidence", strconv.Itoa(minConfidence))

	var result core.ScanResult
	if err := c.getJSON(ctx, "/api/pullback-scanner", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StrategyBacktest runs the pullback strategy backtest for a symbol.
func (c *Client) StrategyBacktest(ctx context.Context, symbol, period string, initialCapital float64) (*core.BacktestResult, error) {
	if !core.ValidSymbol(symbol) {
		return nil, core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol))
	}

	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}
	if initialCapital > 0 {
		query.Set("initial_capital", strconv.FormatFloat(initialCapital, 'f', -1, 64))
	}

	var result core.BacktestResult
	if err := c.getJSON(ctx, "/api/strategy-backtest/"+url.PathEscape(symbol), query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StrategyStatus fetches the compact indicator panel for a symbol.
func (c *Client) StrategyStatus(ctx context.Context, symbol string) (*core.StrategyStatus, error) {
	if !core.ValidSymbol(symbol) {
		return nil, core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol))
	}

	var env statusEnvelope
	query := url.Values{"symbol": {symbol}}
	if err := c.getJSON(ctx, "/api/strategy-status", query, &env); err != nil {
		return nil, err
	}
	return &env.Status, nil
}

// LegacyBacktest runs the batch EMA-crossover backtest over the Nasdaq
// universe. The symbol and period seed the request body the way the old
// dashboard sent it.
func (c *Client) LegacyBacktest(ctx context.Context, symbol, period string) ([]core.LegacyBacktestRow, error) {
	body := legacyBacktestRequest{Symbol: symbol, Period: period}

	var env legacyBacktestEnvelope
	if err := c.postJSON(ctx, "/api/backtest", body, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

// Strategy API response envelopes
type marketDataEnvelope struct {
	Data []core.MarketDataPoint `json:"data"`
}

type analysisEnvelope struct {
	Analysis core.PullbackAnalysis `json:"analysis"`
	Success  bool                  `json:"success"`
}

type statusEnvelope struct {
	Status core.StrategyStatus `json:"status"`
}

type legacyBacktestRequest struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

type legacyBacktestEnvelope struct {
	Results []core.LegacyBacktestRow `json:"results"`
}
