// Package webhook posts notification JSON documents to a configured
// HTTP endpoint.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier"
)

// setupPayload is the wire form of one pullback opportunity.
type setupPayload struct {
	Type           string      `json:"type"`
	Symbol         string      `json:"symbol"`
	Signal         core.Signal `json:"signal"`
	Confidence     int         `json:"confidence"`
	SignalStrength float64     `json:"signal_strength"`
	CriteriaMet    int         `json:"criteria_met"`
	EntryPrice     float64     `json:"entry_price"`
	StopLoss       float64     `json:"stop_loss"`
	Target1        float64     `json:"target_1"`
	Target2        float64     `json:"target_2"`
	Timestamp      string      `json:"timestamp"`
	SentAt         string      `json:"sent_at"`
}

// Webhook delivers notifications as JSON POSTs with optional static
// headers, typically for auth.
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// New builds a webhook pointed at url.
func New(url string, headers map[string]string) *Webhook {
	return &Webhook{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

// Init applies overrides from Params and checks the endpoint is set.
func (w *Webhook) Init(cfg notifier.Config) error {
	if url, ok := cfg.Params["url"].(string); ok {
		w.url = url
	}
	if headers, ok := cfg.Params["headers"].(map[string]string); ok {
		w.headers = headers
	}
	if w.url == "" {
		return fmt.Errorf("webhook: url is required")
	}
	if w.client == nil {
		w.client = &http.Client{Timeout: 30 * time.Second}
	}
	return nil
}

func (w *Webhook) Send(analysis core.PullbackAnalysis) error {
	return w.post(w.payload(analysis))
}

func (w *Webhook) SendBatch(analyses []core.PullbackAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	setups := make([]setupPayload, len(analyses))
	for i, a := range analyses {
		setups[i] = w.payload(a)
	}

	return w.post(struct {
		Type          string         `json:"type"`
		Count         int            `json:"count"`
		Opportunities []setupPayload `json:"opportunities"`
	}{Type: "batch", Count: len(analyses), Opportunities: setups})
}

func (w *Webhook) Alert(message string) error {
	return w.post(struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		SentAt  string `json:"sent_at"`
	}{Type: "alert", Message: message, SentAt: time.Now().Format(time.RFC3339)})
}

func (w *Webhook) payload(a core.PullbackAnalysis) setupPayload {
	return setupPayload{
		Type:           "pullback_opportunity",
		Symbol:         a.Symbol,
		Signal:         a.Signal,
		Confidence:     a.Confidence,
		SignalStrength: a.SignalStrength,
		CriteriaMet:    a.Criteria.MetCount(),
		EntryPrice:     a.TradeSetup.EntryPrice,
		StopLoss:       a.TradeSetup.StopLoss,
		Target1:        a.TradeSetup.Target1,
		Target2:        a.TradeSetup.Target2,
		Timestamp:      a.Timestamp,
		SentAt:         time.Now().Format(time.RFC3339),
	}
}

func (w *Webhook) post(payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: marshaling payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: posting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
