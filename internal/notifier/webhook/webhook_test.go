package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier"
)

var _ notifier.Notifier = (*Webhook)(nil)

// captureHook spins up a receiving endpoint and a webhook pointed at
// it. The returned map fills with the last decoded request body.
func captureHook(t *testing.T) (*Webhook, *map[string]any) {
	t.Helper()
	body := make(map[string]any)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clear(body)
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding webhook body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	return New(server.URL, nil), &body
}

func TestWebhook_Name(t *testing.T) {
	if got := New("http://example.com/hook", nil).Name(); got != "webhook" {
		t.Errorf("Name() = %q, want webhook", got)
	}
}

func TestWebhook_Init(t *testing.T) {
	t.Run("url required", func(t *testing.T) {
		w := &Webhook{}
		if err := w.Init(notifier.Config{Params: map[string]any{}}); err == nil {
			t.Error("Init without a url should fail")
		}
	})

	t.Run("url from params", func(t *testing.T) {
		w := &Webhook{}
		err := w.Init(notifier.Config{Params: map[string]any{"url": "http://example.com/hook"}})
		if err != nil {
			t.Fatalf("Init: %v", err)
		}
		if w.url != "http://example.com/hook" {
			t.Errorf("url = %q", w.url)
		}
		if w.client == nil {
			t.Error("Init must leave the webhook with a usable client")
		}
	})
}

func TestWebhook_Send(t *testing.T) {
	w, body := captureHook(t)

	analysis := core.PullbackAnalysis{
		Symbol:         "AAPL",
		Signal:         core.SignalBuy,
		Confidence:     85,
		SignalStrength: 72.5,
		TradeSetup: core.TradeSetup{
			EntryPrice: 150.25,
			StopLoss:   142.74,
			Target1:    165.28,
			Target2:    172.79,
		},
		Timestamp: "2025-08-25T10:30:00",
	}

	if err := w.Send(analysis); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got := *body
	if got["type"] != "pullback_opportunity" {
		t.Errorf("type = %v, want pullback_opportunity", got["type"])
	}
	if got["symbol"] != "AAPL" || got["signal"] != "BUY" {
		t.Errorf("symbol/signal = %v/%v", got["symbol"], got["signal"])
	}
	if got["confidence"].(float64) != 85 {
		t.Errorf("confidence = %v, want 85", got["confidence"])
	}
	if got["entry_price"].(float64) != 150.25 {
		t.Errorf("entry_price = %v, want 150.25", got["entry_price"])
	}
	if got["sent_at"] == "" {
		t.Error("sent_at should carry the delivery time")
	}
}

func TestWebhook_SendBatch(t *testing.T) {
	w, body := captureHook(t)

	err := w.SendBatch([]core.PullbackAnalysis{
		{Symbol: "AAPL", Signal: core.SignalBuy, Confidence: 80},
		{Symbol: "MSFT", Signal: core.SignalStrongBuy, Confidence: 92},
	})
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}

	got := *body
	if got["type"] != "batch" {
		t.Errorf("type = %v, want batch", got["type"])
	}
	if got["count"].(float64) != 2 {
		t.Errorf("count = %v, want 2", got["count"])
	}
	opportunities, ok := got["opportunities"].([]any)
	if !ok || len(opportunities) != 2 {
		t.Errorf("opportunities = %v, want 2 entries", got["opportunities"])
	}
}

func TestWebhook_SendBatch_Empty(t *testing.T) {
	// No server behind this URL; an empty batch must not POST at all.
	w := New("http://localhost:1/unreachable", nil)
	if err := w.SendBatch(nil); err != nil {
		t.Errorf("empty batch should not error: %v", err)
	}
}

func TestWebhook_Alert(t *testing.T) {
	w, body := captureHook(t)

	if err := w.Alert("dashboard source disconnected"); err != nil {
		t.Fatalf("Alert: %v", err)
	}

	got := *body
	if got["type"] != "alert" {
		t.Errorf("type = %v, want alert", got["type"])
	}
	if got["message"] != "dashboard source disconnected" {
		t.Errorf("message = %v", got["message"])
	}
}

func TestWebhook_EndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	w := New(server.URL, nil)
	if err := w.Send(core.PullbackAnalysis{Symbol: "AAPL"}); err == nil {
		t.Error("a 5xx response should surface as an error")
	}
}

func TestWebhook_Headers(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	w := New(server.URL, map[string]string{
		"Authorization": "Bearer test-token",
		"X-Origin":      "tsd",
	})

	if err := w.Send(core.PullbackAnalysis{Symbol: "AAPL"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.Get("Authorization") != "Bearer test-token" {
		t.Error("static Authorization header should be forwarded")
	}
	if got.Get("X-Origin") != "tsd" {
		t.Error("custom headers should be forwarded")
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got.Get("Content-Type"))
	}
}
