// Package email delivers notifications over SMTP, as plain text for a
// single setup and a small HTML digest for batches.
package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/notifier"
)

// Email sends through one SMTP account to a fixed recipient list.
type Email struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
}

// New builds an email channel. Username may be empty for servers that
// accept unauthenticated relay.
func New(host string, port int, username, password, from string, to []string) *Email {
	return &Email{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
}

func (e *Email) Name() string { return "email" }

// Init applies overrides from Params and checks the required fields.
func (e *Email) Init(cfg notifier.Config) error {
	if host, ok := cfg.Params["host"].(string); ok {
		e.host = host
	}
	if port, ok := cfg.Params["port"].(int); ok {
		e.port = port
	}
	if username, ok := cfg.Params["username"].(string); ok {
		e.username = username
	}
	if password, ok := cfg.Params["password"].(string); ok {
		e.password = password
	}
	if from, ok := cfg.Params["from"].(string); ok {
		e.from = from
	}
	if to, ok := cfg.Params["to"].([]string); ok {
		e.to = to
	}

	if e.host == "" || e.from == "" || len(e.to) == 0 {
		return fmt.Errorf("email: host, from and to are required")
	}
	if e.port == 0 {
		e.port = 587
	}
	return nil
}

func (e *Email) Send(analysis core.PullbackAnalysis) error {
	subject := fmt.Sprintf("Pullback Alert: %s %s", analysis.Symbol, analysis.Signal)
	return e.send(subject, e.formatAnalysis(analysis))
}

func (e *Email) SendBatch(analyses []core.PullbackAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString("<h2>Pullback Opportunities</h2>")
	fmt.Fprintf(&sb, "<p>Generated at: %s</p>", time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("<hr>")
	for _, analysis := range analyses {
		sb.WriteString(e.formatAnalysisHTML(analysis))
		sb.WriteString("<hr>")
	}
	sb.WriteString("</body></html>")

	subject := fmt.Sprintf("Pullback Digest: %d Opportunities", len(analyses))
	return e.send(subject, sb.String())
}

func (e *Email) Alert(message string) error {
	return e.send("Operational Alert", message)
}

func (e *Email) formatAnalysis(a core.PullbackAnalysis) string {
	var sb strings.Builder
	sb.WriteString("Pullback Opportunity\n\n")
	fmt.Fprintf(&sb, "Symbol: %s\n", a.Symbol)
	fmt.Fprintf(&sb, "Signal: %s\n", a.Signal)
	fmt.Fprintf(&sb, "Confidence: %d%%\n", a.Confidence)
	fmt.Fprintf(&sb, "Criteria met: %d/6\n", a.Criteria.MetCount())
	fmt.Fprintf(&sb, "Entry: $%.2f\n", a.TradeSetup.EntryPrice)
	fmt.Fprintf(&sb, "Stop: $%.2f\n", a.TradeSetup.StopLoss)
	fmt.Fprintf(&sb, "Targets: $%.2f / $%.2f\n", a.TradeSetup.Target1, a.TradeSetup.Target2)
	fmt.Fprintf(&sb, "Time: %s\n", a.Timestamp)
	return sb.String()
}

func (e *Email) formatAnalysisHTML(a core.PullbackAnalysis) string {
	color := "#28a745"
	if a.Signal == core.SignalSell || a.Signal == core.SignalStrongSell {
		color = "#dc3545"
	}

	var sb strings.Builder
	sb.WriteString(`<div style="margin: 10px 0;">`)
	fmt.Fprintf(&sb, `<h3 style="color: %s;">%s - %s</h3>`, color, a.Symbol, a.Signal)
	fmt.Fprintf(&sb, "<p><strong>Confidence:</strong> %d%%</p>", a.Confidence)
	fmt.Fprintf(&sb, "<p><strong>Criteria met:</strong> %d/6</p>", a.Criteria.MetCount())
	fmt.Fprintf(&sb, "<p><strong>Entry:</strong> $%.2f &nbsp; <strong>Stop:</strong> $%.2f</p>",
		a.TradeSetup.EntryPrice, a.TradeSetup.StopLoss)
	fmt.Fprintf(&sb, "<p><strong>Targets:</strong> $%.2f / $%.2f</p>",
		a.TradeSetup.Target1, a.TradeSetup.Target2)
	fmt.Fprintf(&sb, "<p><small>%s</small></p>", a.Timestamp)
	sb.WriteString("</div>")
	return sb.String()
}

func (e *Email) send(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", e.host, e.port)

	var auth smtp.Auth
	if e.username != "" {
		auth = smtp.PlainAuth("", e.username, e.password, e.host)
	}

	return smtp.SendMail(addr, auth, e.from, e.to, e.message(subject, body))
}

// message assembles RFC 5322 headers around the body. Digests are
// recognized by their html wrapper and sent with an html content type.
func (e *Email) message(subject, body string) []byte {
	contentType := "text/plain"
	if strings.HasPrefix(strings.TrimSpace(body), "<html>") {
		contentType = "text/html"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", e.from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(e.to, ","))
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	fmt.Fprintf(&sb, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: %s; charset=UTF-8\r\n", contentType)
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
