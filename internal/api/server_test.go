// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/job"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/mockdata"
	"go.uber.org/zap"
)

// testRunner drives scans and backtests straight off the synthesizer,
// standing in for the app.
type testRunner struct {
	synth *mockdata.Synthesizer
}

func (t *testRunner) RunScan(ctx context.Context, universe string, symbols []string, minConfidence int) (*core.ScanResult, error) {
	if len(symbols) == 0 {
		name := universe
		if name == "" {
			name = "nasdaq"
		}
		symbols = core.Universe(name)
		if symbols == nil {
			return nil, core.WrapError(core.ErrUniverseUnknown, nil)
		}
		symbols = symbols[:3]
	}
	return t.synth.ScanPullbacks(ctx, symbols, minConfidence)
}

func (t *testRunner) RunBacktest(ctx context.Context, symbol, period string, initialCapital float64) (*core.BacktestResult, error) {
	return t.synth.StrategyBacktest(ctx, symbol, period, initialCapital)
}

func (t *testRunner) RunLegacyBacktest(ctx context.Context, symbol, period string) ([]core.LegacyBacktestRow, error) {
	return t.synth.LegacyBacktest(ctx, symbol, period)
}

// testDashboard assembles snapshots on the fly.
type testDashboard struct {
	synth *mockdata.Synthesizer
}

func (d *testDashboard) Snapshot(ctx context.Context, symbol string) (*core.DashboardSnapshot, error) {
	data, err := d.synth.MarketData(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &core.DashboardSnapshot{
		Symbol:      symbol,
		MarketData:  data,
		Connected:   false,
		Sequence:    1,
		RefreshedAt: time.Now().UTC(),
	}, nil
}

func (d *testDashboard) Symbols() []string { return []string{"AAPL"} }

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	synth := mockdata.New(rand.New(rand.NewSource(7)))
	deps := Dependencies{
		Source:    synth,
		Dashboard: &testDashboard{synth: synth},
		Scans:     &testRunner{synth: synth},
		Backtests: &testRunner{synth: synth},
		Jobs:      job.NewStore(10, time.Hour),
		Metrics:   metrics.NewRegistry(),
	}
	srv, err := NewServer(cfg, deps, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func TestServer_Banner(t *testing.T) {
	srv := newTestServer(t, Config{Host: "localhost", Port: 0})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Trading Strategy Dashboard API is running" {
		t.Errorf("unexpected banner message: %q", body["message"])
	}
	if body["version"] != "dev" {
		t.Errorf("expected version dev, got %q", body["version"])
	}
}

func TestServer_Banner_UnknownPath(t *testing.T) {
	srv := newTestServer(t, Config{Host: "localhost", Port: 0})

	req := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestServer_MarketData(t *testing.T) {
	srv := newTestServer(t, Config{Host: "localhost", Port: 0})

	req := httptest.NewRequest("GET", "/api/market-data?symbol=AAPL", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	data, ok := body["data"].([]any)
	if !ok || len(data) == 0 {
		t.Error("expected non-empty data array")
	}
}

func TestServer_PathParams(t *testing.T) {
	srv := newTestServer(t, Config{Host: "localhost", Port: 0})

	req := httptest.NewRequest("GET", "/api/pullback-analysis/NVDA", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	analysis := body["analysis"].(map[string]any)
	if analysis["symbol"] != "NVDA" {
		t.Errorf("expected symbol NVDA, got %v", analysis["symbol"])
	}

	req = httptest.NewRequest("GET", "/api/strategy-backtest/NVDA?period=3mo", nil)
	w = httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body = map[string]any{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["symbol"] != "NVDA" || body["period"] != "3mo" {
		t.Errorf("unexpected backtest wire fields: %v %v", body["symbol"], body["period"])
	}
}

func TestServer_APIAuth(t *testing.T) {
	srv := newTestServer(t, Config{Host: "localhost", Port: 0, APIKey: "secret"})

	// No key on a protected route.
	req := httptest.NewRequest("GET", "/api/dashboard?symbol=AAPL", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}

	var resp response.ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "UNAUTHORIZED" {
		t.Errorf("expected UNAUTHORIZED, got %s", resp.Error.Code)
	}

	// Wrong key.
	req = httptest.NewRequest("GET", "/api/dashboard?symbol=AAPL", nil)
	req.Header.Set("X-API-Key", "wrong")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", w.Code)
	}

	// Valid key.
	req = httptest.NewRequest("GET", "/api/dashboard?symbol=AAPL", nil)
	req.Header.Set("X-API-Key", "secret")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with valid key, got %d", w.Code)
	}

	// The banner and scrape endpoint stay open.
	req = httptest.NewRequest("GET", "/", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected open banner, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/metrics", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected open metrics endpoint, got %d", w.Code)
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{Host: "localhost", Port: 0})

	// Generate one request so the scrape has request series to show.
	req := httptest.NewRequest("GET", "/api/market-data?symbol=AAPL", nil)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("expected runtime metrics in scrape output")
	}
}

func TestServer_ScanJobFlow(t *testing.T) {
	srv := newTestServer(t, Config{Host: "localhost", Port: 0})

	body := bytes.NewBufferString(`{"universe": "nasdaq", "min_confidence": 60}`)
	req := httptest.NewRequest("POST", "/api/scan", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	jobID, ok := resp.Data.(map[string]any)["job_id"].(string)
	if !ok || jobID == "" {
		t.Fatal("expected job_id in response")
	}

	req = httptest.NewRequest("GET", "/api/jobs/"+jobID, nil)
	w = httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp = response.SuccessResponse{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if got := resp.Data.(map[string]any)["job_id"]; got != jobID {
		t.Errorf("expected job_id %s, got %v", jobID, got)
	}
}

func TestServer_MissingDependency(t *testing.T) {
	_, err := NewServer(Config{Host: "localhost", Port: 0}, Dependencies{}, zap.NewNop())
	if err == nil {
		t.Error("expected error for missing dependencies")
	}
}
