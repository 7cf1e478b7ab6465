// internal/storage/archive/interface.go
package archive

import "context"

// Storage is the blob backend for archived scan and backtest results.
// Keys are slash-separated relative paths; backends map them onto a
// directory tree or an object store. Write creates any intermediate
// hierarchy, and List returns keys relative to the backend root.
type Storage interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
