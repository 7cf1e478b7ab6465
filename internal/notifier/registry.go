package notifier

import (
	"fmt"
	"sort"
	"sync"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Registry holds the active delivery channels keyed by name. All
// methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]Notifier
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]Notifier)}
}

// Register adds a channel. Names must be unique.
func (r *Registry) Register(n Notifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := n.Name()
	if _, dup := r.channels[name]; dup {
		return fmt.Errorf("notifier %s already registered", name)
	}
	r.channels[name] = n
	return nil
}

// Get looks a channel up by name.
func (r *Registry) Get(name string) (Notifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.channels[name]
	if !ok {
		return nil, fmt.Errorf("notifier %s not found", name)
	}
	return n, nil
}

// GetAll returns every registered channel in unspecified order.
func (r *Registry) GetAll() []Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Notifier, 0, len(r.channels))
	for _, n := range r.channels {
		out = append(out, n)
	}
	return out
}

// Names returns the registered channel names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NotifyAll delivers one setup through every channel and collects
// failures by channel name. An empty map means full delivery.
func (r *Registry) NotifyAll(analysis core.PullbackAnalysis) map[string]error {
	return r.broadcast(func(n Notifier) error { return n.Send(analysis) })
}

// NotifyAllBatch delivers a scan digest through every channel.
func (r *Registry) NotifyAllBatch(analyses []core.PullbackAnalysis) map[string]error {
	return r.broadcast(func(n Notifier) error { return n.SendBatch(analyses) })
}

func (r *Registry) broadcast(send func(Notifier) error) map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	failures := make(map[string]error)
	for name, n := range r.channels {
		if err := send(n); err != nil {
			failures[name] = err
		}
	}
	return failures
}
