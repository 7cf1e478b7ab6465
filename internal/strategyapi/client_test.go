package strategyapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8000/")
	if c.BaseURL() != "http://localhost:8000" {
		t.Errorf("expected trimmed base URL, got %s", c.BaseURL())
	}
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Enhanced EMA Pullback Trading Strategy API is running",
			"version": "2.0.0",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Version != "2.0.0" {
		t.Errorf("expected version 2.0.0, got %s", h.Version)
	}
}

func TestClient_MarketData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/market-data" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("expected symbol AAPL, got %s", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"time": "09:30", "price": 189.50, "volume": 1200000},
				{"time": "10:00", "price": 190.12, "volume": 980000},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	points, err := c.MarketData(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Time != "09:30" || points[0].Price != 189.50 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
}

func TestClient_MarketData_InvalidSymbol(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.MarketData(context.Background(), "aapl; drop")
	if !errors.Is(err, core.ErrSymbolInvalid) {
		t.Errorf("expected ErrSymbolInvalid, got %v", err)
	}
	if called {
		t.Error("invalid symbol should not reach the server")
	}
}

func TestClient_PullbackAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pullback-analysis/NVDA" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"analysis": map[string]any{
				"symbol":          "NVDA",
				"signal":          "STRONG_BUY",
				"confidence":      91,
				"signal_strength": 88.5,
				"criteria": map[string]any{
					"1_daily_trend": map[string]any{"met": true, "ema_trend": true},
					"6_risk_reward": map[string]any{"met": true, "risk_reward_2r": "1:2"},
				},
				"trade_setup": map[string]any{
					"entry_price": 470.5,
					"stop_loss":   446.97,
					"target_1":    517.55,
					"target_2":    541.07,
				},
				"timestamp": "2025-01-02 15:04:05",
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	analysis, err := c.PullbackAnalysis(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Signal != core.SignalStrongBuy {
		t.Errorf("expected STRONG_BUY, got %s", analysis.Signal)
	}
	if !analysis.Criteria.DailyTrend.Met {
		t.Error("expected daily trend criterion met")
	}
	if analysis.Criteria.RiskReward.RiskReward2R != "1:2" {
		t.Errorf("unexpected risk reward: %s", analysis.Criteria.RiskReward.RiskReward2R)
	}
	if !analysis.TradeSetup.Ordered() {
		t.Error("expected ordered trade setup")
	}
}

func TestClient_ScanPullbacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q["symbols"]; len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
			t.Errorf("unexpected symbols: %v", got)
		}
		if got := q.Get("min_confidence"); got != "80" {
			t.Errorf("expected min_confidence 80, got %s", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"opportunities": []map[string]any{
				{"symbol": "AAPL", "signal": "BUY", "confidence": 85},
			},
			"total_scanned":       2,
			"opportunities_found": 1,
			"success":             true,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	result, err := c.ScanPullbacks(context.Background(), []string{"AAPL", "MSFT"}, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalScanned != 2 || result.OpportunitiesFound != 1 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if len(result.Opportunities) != 1 || result.Opportunities[0].Symbol != "AAPL" {
		t.Errorf("unexpected opportunities: %+v", result.Opportunities)
	}
}

func TestClient_ScanPullbacks_EmptySymbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["symbols"]; ok {
			t.Error("empty scan should omit symbols param")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"opportunities": []any{}, "total_scanned": 5, "opportunities_found": 0, "success": true,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	result, err := c.ScanPullbacks(context.Background(), nil, 70)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalScanned != 5 {
		t.Errorf("expected total_scanned 5, got %d", result.TotalScanned)
	}
}

func TestClient_StrategyBacktest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/strategy-backtest/TSLA" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("period") != "6mo" {
			t.Errorf("expected period 6mo, got %s", q.Get("period"))
		}
		if q.Get("initial_capital") != "25000" {
			t.Errorf("expected initial_capital 25000, got %s", q.Get("initial_capital"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"symbol":          "TSLA",
			"period":          "6mo",
			"initial_capital": 25000.0,
			"metrics": map[string]any{
				"total_trades": 12, "winning_trades": 8, "losing_trades": 4,
				"win_rate": 66.67, "final_capital": 27450.0,
			},
			"trades": []map[string]any{
				{"entry_date": "2024-08-01", "exit_date": "2024-08-12", "exit_reason": "TARGET_HIT"},
			},
			"success": true,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	result, err := c.StrategyBacktest(context.Background(), "TSLA", "6mo", 25000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metrics.TotalTrades != 12 {
		t.Errorf("expected 12 trades, got %d", result.Metrics.TotalTrades)
	}
	if result.Trades[0].ExitReason != core.ExitTargetHit {
		t.Errorf("unexpected exit reason: %s", result.Trades[0].ExitReason)
	}
}

func TestClient_StrategyStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/strategy-status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "SPY" {
			t.Errorf("expected symbol SPY, got %s", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[string]any{
				"dailyTrend": "UP", "ema50": 452.1, "ema200": 430.8,
				"rsi": 58.3, "macd": "BULLISH", "volumeSpike": true,
				"lastUpdate": "2025-01-02 16:00:00",
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	status, err := c.StrategyStatus(context.Background(), "SPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.DailyTrend != "UP" || status.MACD != "BULLISH" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestClient_LegacyBacktest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/backtest" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["symbol"] != "SPY" || req["period"] != "1mo" {
			t.Errorf("unexpected body: %v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"symbol": "NVDA", "totalTrades": 4, "winRate": 75.0, "totalPnL": 101.2,
					"trades": []map[string]any{
						{"type": "BUY", "price": 470.5, "time": "2024-12-02 09:30", "pnl": ""},
						{"type": "SELL", "price": 495.8, "time": "2024-12-09 09:30", "pnl": "25.30"},
					}},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	rows, err := c.LegacyBacktest(context.Background(), "SPY", "1mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Symbol != "NVDA" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if rows[0].Trades[1].PnL != "25.30" {
		t.Errorf("unexpected trade pnl: %q", rows[0].Trades[1].PnL)
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Backtest error: boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.PullbackAnalysis(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("expected code 500, got %d", statusErr.Code)
	}
	if !errors.Is(err, core.ErrUpstreamStatus) {
		t.Error("StatusError should match ErrUpstreamStatus")
	}
}

func TestClient_Unreachable(t *testing.T) {
	// Reserve an address and close it so the connection is refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c := New(addr, WithTimeout(time.Second))
	_, err := c.Health(context.Background())
	if !errors.Is(err, core.ErrUpstreamUnreachable) {
		t.Errorf("expected ErrUpstreamUnreachable, got %v", err)
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Health(context.Background())
	if !errors.Is(err, core.ErrDecodeFailed) {
		t.Errorf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(server.URL)
	_, err := c.Health(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, core.ErrUpstreamUnreachable) {
		t.Errorf("expected ErrUpstreamUnreachable wrap, got %v", err)
	}
}
