// internal/storage/snapshot/interface.go
package snapshot

import (
	"context"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Store caches assembled dashboard snapshots keyed by symbol. The
// refresh loop writes, the API reads; whichever backend is configured,
// readers always see a complete snapshot.
type Store interface {
	// Put stores the snapshot for its symbol, replacing any previous one.
	Put(ctx context.Context, snap *core.DashboardSnapshot) error

	// Get retrieves the snapshot for a symbol. Returns core.ErrNotFound
	// when none is cached.
	Get(ctx context.Context, symbol string) (*core.DashboardSnapshot, error)

	// Symbols lists the symbols that currently have a cached snapshot.
	Symbols(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
