package alert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// exprPattern matches threshold expressions of the form "stat op number",
// e.g. "stale_drops > 10" or "connected == 0".
var exprPattern = regexp.MustCompile(`^(\w+)\s*(>=|<=|==|!=|>|<)\s*([0-9.]+)$`)

// Rule describes one operational alert over the dashboard's runtime
// statistics. Expr compares a single stat against a numeric threshold;
// For requires the condition to hold continuously before the rule fires.
type Rule struct {
	Name     string
	Expr     string
	For      time.Duration
	Severity string
	Message  string
}

// parse splits Expr into its stat name, comparison operator and threshold.
func (r *Rule) parse() (stat, op string, threshold float64, ok bool) {
	m := exprPattern.FindStringSubmatch(strings.TrimSpace(r.Expr))
	if m == nil {
		return "", "", 0, false
	}
	threshold, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return "", "", 0, false
	}
	return m[1], m[2], threshold, true
}

// Evaluate reports whether the rule condition holds for the given stats.
// Malformed expressions and stats that are not being tracked never trigger.
func (r *Rule) Evaluate(stats map[string]float64) bool {
	stat, op, threshold, ok := r.parse()
	if !ok {
		return false
	}
	value, tracked := stats[stat]
	if !tracked {
		return false
	}
	return compare(value, op, threshold)
}

func compare(value float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return value > threshold
	case "<":
		return value < threshold
	case ">=":
		return value >= threshold
	case "<=":
		return value <= threshold
	case "==":
		return value == threshold
	case "!=":
		return value != threshold
	}
	return false
}

// FormatMessage renders the outgoing alert text. When the rule's stat is
// tracked, the observed value is appended so the notification carries the
// number that tripped the threshold.
func (r *Rule) FormatMessage(stats map[string]float64) string {
	msg := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(r.Severity), r.Name, r.Message)
	if stat, _, _, ok := r.parse(); ok {
		if value, tracked := stats[stat]; tracked {
			msg += fmt.Sprintf(" (%s=%s)", stat, strconv.FormatFloat(value, 'g', -1, 64))
		}
	}
	return msg
}
