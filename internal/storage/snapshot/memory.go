// internal/storage/snapshot/memory.go
package snapshot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

type memoryEntry struct {
	snap     core.DashboardSnapshot
	storedAt time.Time
}

// MemoryStore is an in-memory snapshot cache with optional expiry.
type MemoryStore struct {
	entries map[string]memoryEntry
	ttl     time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store. A zero TTL keeps snapshots
// until they are overwritten.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores the snapshot for its symbol.
func (m *MemoryStore) Put(ctx context.Context, snap *core.DashboardSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[snap.Symbol] = memoryEntry{
		snap:     *snap,
		storedAt: m.now(),
	}
	return nil
}

// Get retrieves the snapshot for a symbol.
func (m *MemoryStore) Get(ctx context.Context, symbol string) (*core.DashboardSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[symbol]
	if !ok {
		return nil, core.ErrNotFound
	}
	if m.expired(entry) {
		return nil, core.ErrNotFound
	}

	snap := entry.snap
	return &snap, nil
}

// Symbols lists symbols with a live snapshot, sorted.
func (m *MemoryStore) Symbols(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbols := make([]string, 0, len(m.entries))
	for symbol, entry := range m.entries {
		if !m.expired(entry) {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) expired(entry memoryEntry) bool {
	return m.ttl > 0 && m.now().Sub(entry.storedAt) > m.ttl
}
