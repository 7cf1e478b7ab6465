// Package notifier defines the delivery contract for pullback
// opportunities and operational alerts, plus a registry the router
// fans out through. The channel implementations live in subpackages.
package notifier

import (
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Config carries channel settings into Init. Constructors set the
// usual fields directly; Params lets a caller override them at init
// time, keyed the way the YAML config names them.
type Config struct {
	Type   string
	Params map[string]any
}

// Notifier is one delivery channel. Send delivers a single setup,
// SendBatch one scan's digest, and Alert an operational message with
// no setup attached.
type Notifier interface {
	Name() string
	Init(cfg Config) error
	Send(analysis core.PullbackAnalysis) error
	SendBatch(analyses []core.PullbackAnalysis) error
	Alert(message string) error
}
