package email

import (
	"strings"
	"testing"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier"
)

var _ notifier.Notifier = (*Email)(nil)

func testEmail() *Email {
	return New("smtp.example.com", 587, "", "", "tsd@example.com", []string{"ops@example.com"})
}

func TestEmail_Name(t *testing.T) {
	if got := testEmail().Name(); got != "email" {
		t.Errorf("Name() = %q, want email", got)
	}
}

func TestEmail_Init(t *testing.T) {
	t.Run("missing required fields", func(t *testing.T) {
		e := &Email{}
		if err := e.Init(notifier.Config{Params: map[string]any{}}); err == nil {
			t.Error("Init without host/from/to should fail")
		}
	})

	t.Run("from params", func(t *testing.T) {
		e := &Email{}
		err := e.Init(notifier.Config{
			Params: map[string]any{
				"host": "smtp.example.com",
				"from": "tsd@example.com",
				"to":   []string{"ops@example.com"},
			},
		})
		if err != nil {
			t.Fatalf("Init: %v", err)
		}
		if e.host != "smtp.example.com" {
			t.Errorf("host = %q", e.host)
		}
		if e.port != 587 {
			t.Errorf("unset port should default to 587, got %d", e.port)
		}
	})
}

func TestEmail_FormatAnalysis(t *testing.T) {
	analysis := core.PullbackAnalysis{
		Symbol:     "AAPL",
		Signal:     core.SignalBuy,
		Confidence: 85,
		TradeSetup: core.TradeSetup{
			EntryPrice: 150.25,
			StopLoss:   142.74,
			Target1:    165.28,
			Target2:    172.79,
		},
		Timestamp: "2025-08-25T10:30:00",
	}

	formatted := testEmail().formatAnalysis(analysis)

	for _, want := range []string{"AAPL", "BUY", "85%", "150.25", "142.74"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("formatted body should contain %q:\n%s", want, formatted)
		}
	}
}

func TestEmail_FormatAnalysisHTML_SignalColor(t *testing.T) {
	tests := []struct {
		signal core.Signal
		color  string
	}{
		{core.SignalStrongBuy, "#28a745"},
		{core.SignalBuy, "#28a745"},
		{core.SignalSell, "#dc3545"},
		{core.SignalStrongSell, "#dc3545"},
	}

	e := testEmail()
	for _, tt := range tests {
		t.Run(string(tt.signal), func(t *testing.T) {
			html := e.formatAnalysisHTML(core.PullbackAnalysis{Symbol: "AAPL", Signal: tt.signal, Confidence: 80})
			if !strings.Contains(html, tt.color) {
				t.Errorf("%s should render with color %s:\n%s", tt.signal, tt.color, html)
			}
		})
	}
}

func TestEmail_Message_PlainText(t *testing.T) {
	msg := string(testEmail().message("Pullback Alert: AAPL BUY", "Entry: $150.25"))

	for _, want := range []string{
		"From: tsd@example.com\r\n",
		"To: ops@example.com\r\n",
		"Subject: Pullback Alert: AAPL BUY\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"\r\n\r\nEntry: $150.25",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message should contain %q:\n%s", want, msg)
		}
	}
}

func TestEmail_Message_HTMLDigest(t *testing.T) {
	msg := string(testEmail().message("Pullback Digest: 2 Opportunities", "<html><body>digest</body></html>"))

	if !strings.Contains(msg, "Content-Type: text/html; charset=UTF-8\r\n") {
		t.Errorf("digest should be sent as text/html:\n%s", msg)
	}
}

func TestEmail_Message_MultipleRecipients(t *testing.T) {
	e := New("smtp.example.com", 587, "", "", "tsd@example.com",
		[]string{"ops@example.com", "desk@example.com"})

	msg := string(e.message("Operational Alert", "store unreachable"))
	if !strings.Contains(msg, "To: ops@example.com,desk@example.com\r\n") {
		t.Errorf("all recipients should be listed:\n%s", msg)
	}
}

func TestEmail_SendBatch_Empty(t *testing.T) {
	if err := testEmail().SendBatch(nil); err != nil {
		t.Errorf("empty batch should not error: %v", err)
	}
}
