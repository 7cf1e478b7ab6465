// Package telegram sends notifications through the Telegram Bot API.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram posts Markdown messages to one chat via a bot.
type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// New builds a telegram channel for the given bot and chat.
func New(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Init applies overrides from Params and checks the credentials are set.
func (t *Telegram) Init(cfg notifier.Config) error {
	if token, ok := cfg.Params["bot_token"].(string); ok {
		t.botToken = token
	}
	if chatID, ok := cfg.Params["chat_id"].(string); ok {
		t.chatID = chatID
	}

	if t.botToken == "" {
		return fmt.Errorf("telegram: bot_token is required")
	}
	if t.chatID == "" {
		return fmt.Errorf("telegram: chat_id is required")
	}

	if t.apiBase == "" {
		t.apiBase = defaultAPIBase
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: 30 * time.Second}
	}
	return nil
}

func (t *Telegram) Send(analysis core.PullbackAnalysis) error {
	return t.sendMessage(t.formatAnalysis(analysis))
}

func (t *Telegram) SendBatch(analyses []core.PullbackAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%d Pullback Opportunities*\n\n", len(analyses))
	for i, analysis := range analyses {
		sb.WriteString(t.formatAnalysis(analysis))
		if i < len(analyses)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return t.sendMessage(sb.String())
}

func (t *Telegram) Alert(message string) error {
	return t.sendMessage("⚠️ *Operational Alert*\n\n" + message)
}

// formatAnalysis renders one setup as a Markdown block. Zero-priced
// setups omit the entry lines rather than printing $0.00.
func (t *Telegram) formatAnalysis(a core.PullbackAnalysis) string {
	emoji := "⏸️"
	switch {
	case a.Signal.IsBuy():
		emoji = "📈"
	case a.Signal == core.SignalSell || a.Signal == core.SignalStrongSell:
		emoji = "📉"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s* - %s\n", emoji, a.Symbol, a.Signal)
	fmt.Fprintf(&sb, "📊 Confidence: %d%%\n", a.Confidence)
	fmt.Fprintf(&sb, "✅ Criteria met: %d/6\n", a.Criteria.MetCount())

	if setup := a.TradeSetup; setup.EntryPrice > 0 {
		fmt.Fprintf(&sb, "💰 Entry: $%.2f\n", setup.EntryPrice)
		fmt.Fprintf(&sb, "🛑 Stop: $%.2f\n", setup.StopLoss)
		fmt.Fprintf(&sb, "🎯 Targets: $%.2f / $%.2f\n", setup.Target1, setup.Target2)
	}

	fmt.Fprintf(&sb, "⏰ Time: %s", a.Timestamp)
	return sb.String()
}

func (t *Telegram) sendMessage(text string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("telegram: marshaling payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	resp, err := t.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr map[string]any
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("telegram: API error (status %d): %v", resp.StatusCode, apiErr)
	}
	return nil
}
