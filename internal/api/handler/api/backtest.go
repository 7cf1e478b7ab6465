// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Strategy API backtest defaults.
const (
	defaultBacktestPeriod = "1y"
	defaultInitialCapital = 10000.0
	defaultLegacyPeriod   = "1mo"
)

// BacktestRunner runs strategy backtests through the provider chain.
// Implemented by the app, which also archives completed runs.
type BacktestRunner interface {
	RunBacktest(ctx context.Context, symbol, period string, initialCapital float64) (*core.BacktestResult, error)
	RunLegacyBacktest(ctx context.Context, symbol, period string) ([]core.LegacyBacktestRow, error)
}

// BacktestHandler serves the per-symbol and legacy batch backtests.
type BacktestHandler struct {
	runner BacktestRunner
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(runner BacktestRunner) *BacktestHandler {
	return &BacktestHandler{runner: runner}
}

// backtestEnvelope mirrors the strategy API backtest wire format.
type backtestEnvelope struct {
	core.BacktestResult
	Success bool `json:"success"`
}

// Get handles GET /api/strategy-backtest/{symbol}?period=&initial_capital=.
func (h *BacktestHandler) Get(w http.ResponseWriter, r *http.Request, symbol string) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	if !core.ValidSymbol(symbol) {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", symbol)))
		return
	}

	q := r.URL.Query()
	period := q.Get("period")
	if period == "" {
		period = defaultBacktestPeriod
	}
	capital := defaultInitialCapital
	if v := q.Get("initial_capital"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			capital = f
		}
	}

	result, err := h.runner.RunBacktest(r.Context(), symbol, period, capital)
	if err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.Raw(w, http.StatusOK, backtestEnvelope{BacktestResult: *result, Success: true})
}

// LegacyRequest is the body of the batch backtest endpoint.
type LegacyRequest struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

// Legacy handles POST /api/backtest, the batch endpoint the first
// dashboard generation polled. It sweeps the Nasdaq universe whatever
// symbol seeds the request.
func (h *BacktestHandler) Legacy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w)
		return
	}

	var req LegacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, fmt.Errorf("decoding request: %w", err)))
		return
	}
	if req.Symbol == "" {
		req.Symbol = defaultSymbol
	}
	if req.Period == "" {
		req.Period = defaultLegacyPeriod
	}
	if !core.ValidSymbol(req.Symbol) {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", req.Symbol)))
		return
	}

	rows, err := h.runner.RunLegacyBacktest(r.Context(), req.Symbol, req.Period)
	if err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.Raw(w, http.StatusOK, map[string]any{"results": rows})
}
