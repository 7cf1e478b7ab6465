// Package alert raises operational notifications when the dashboard
// service's runtime statistics cross configured thresholds.
package alert

import (
	"sync"
	"time"
)

// defaultCooldown is the minimum gap between two firings of the same rule.
const defaultCooldown = 5 * time.Minute

// Notifier delivers a fired alert. The notification senders are adapted
// to this interface by the application wiring.
type Notifier interface {
	Name() string
	Notify(msg string) error
}

// Evaluator checks rules against the most recent stats snapshot. A rule
// with a hold duration must stay triggered for that long before firing,
// and every rule is rate limited by a shared cooldown.
type Evaluator struct {
	mu        sync.Mutex
	notifiers []Notifier
	stats     map[string]float64
	cooldown  time.Duration

	pendingSince map[string]time.Time
	firedAt      map[string]time.Time

	now func() time.Time
}

// NewEvaluator returns an evaluator that delivers fired alerts to the
// given notifiers.
func NewEvaluator(notifiers []Notifier) *Evaluator {
	return &Evaluator{
		notifiers:    notifiers,
		cooldown:     defaultCooldown,
		pendingSince: make(map[string]time.Time),
		firedAt:      make(map[string]time.Time),
		now:          time.Now,
	}
}

// SetMetrics replaces the stats snapshot the rules are evaluated against.
func (e *Evaluator) SetMetrics(stats map[string]float64) {
	e.mu.Lock()
	e.stats = stats
	e.mu.Unlock()
}

// SetCooldown overrides the per-rule firing cooldown.
func (e *Evaluator) SetCooldown(d time.Duration) {
	e.mu.Lock()
	e.cooldown = d
	e.mu.Unlock()
}

// Evaluate runs one rule against the current stats and reports whether it
// fired. A recovered condition clears the rule's hold window.
func (e *Evaluator) Evaluate(rule Rule) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	if !rule.Evaluate(e.stats) {
		delete(e.pendingSince, rule.Name)
		return false
	}

	if rule.For > 0 && !e.heldLongEnough(rule, now) {
		return false
	}

	if fired, ok := e.firedAt[rule.Name]; ok && now.Sub(fired) < e.cooldown {
		return false
	}

	e.fire(rule, now)
	return true
}

// heldLongEnough tracks how long the rule has been continuously triggered.
func (e *Evaluator) heldLongEnough(rule Rule, now time.Time) bool {
	since, ok := e.pendingSince[rule.Name]
	if !ok {
		e.pendingSince[rule.Name] = now
		return false
	}
	return now.Sub(since) >= rule.For
}

// fire delivers the alert to every notifier. Delivery is best effort; one
// failing notifier does not block the rest.
func (e *Evaluator) fire(rule Rule, now time.Time) {
	msg := rule.FormatMessage(e.stats)
	for _, n := range e.notifiers {
		_ = n.Notify(msg)
	}
	e.firedAt[rule.Name] = now
	delete(e.pendingSince, rule.Name)
}

// EvaluateAll evaluates every rule and returns how many fired.
func (e *Evaluator) EvaluateAll(rules []Rule) int {
	fired := 0
	for _, rule := range rules {
		if e.Evaluate(rule) {
			fired++
		}
	}
	return fired
}

// advanceTime shifts the evaluator's clock forward in tests.
func (e *Evaluator) advanceTime(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.now
	e.now = func() time.Time { return prev().Add(d) }
}
