// internal/storage/archive/archiver.go
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Archiver persists scan and backtest results as JSON documents in a
// blob backend. Keys are date-partitioned so operators can prune old
// archives with a prefix delete.
type Archiver struct {
	storage Storage
	backend string
	log     *zap.Logger

	now func() time.Time // overridable for tests
}

// NewArchiver creates an archiver on top of the given backend. The
// backend name is used for log fields only.
func NewArchiver(storage Storage, backend string, log *zap.Logger) *Archiver {
	return &Archiver{
		storage: storage,
		backend: backend,
		log:     log,
		now:     time.Now,
	}
}

// Backend returns the configured backend name (localfs or s3).
func (a *Archiver) Backend() string {
	return a.backend
}

// SaveScan archives a scanner run and returns the storage key.
// Keys look like scans/2025/08/25/nasdaq-143022.json.
func (a *Archiver) SaveScan(ctx context.Context, universe string, result *core.ScanResult) (string, error) {
	if universe == "" {
		universe = "custom"
	}
	t := a.now().UTC()
	key := fmt.Sprintf("scans/%s/%s-%s.json", t.Format("2006/01/02"), universe, t.Format("150405"))

	if err := a.write(ctx, key, result); err != nil {
		return "", err
	}

	a.log.Info("Archived scan result",
		zap.String("key", key),
		zap.String("backend", a.backend),
		zap.Int("opportunities", result.OpportunitiesFound))
	return key, nil
}

// SaveBacktest archives a backtest run and returns the storage key.
// Keys look like backtests/AAPL/2025-08-25-143022.json.
func (a *Archiver) SaveBacktest(ctx context.Context, result *core.BacktestResult) (string, error) {
	t := a.now().UTC()
	key := fmt.Sprintf("backtests/%s/%s.json", result.Symbol, t.Format("2006-01-02-150405"))

	if err := a.write(ctx, key, result); err != nil {
		return "", err
	}

	a.log.Info("Archived backtest result",
		zap.String("key", key),
		zap.String("backend", a.backend),
		zap.String("symbol", result.Symbol))
	return key, nil
}

// LoadScan reads an archived scan back by key.
func (a *Archiver) LoadScan(ctx context.Context, key string) (*core.ScanResult, error) {
	var result core.ScanResult
	if err := a.read(ctx, key, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LoadBacktest reads an archived backtest back by key.
func (a *Archiver) LoadBacktest(ctx context.Context, key string) (*core.BacktestResult, error) {
	var result core.BacktestResult
	if err := a.read(ctx, key, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListScans returns the keys of all archived scans, oldest first for
// the localfs backend (lexicographic order matches date partitioning).
func (a *Archiver) ListScans(ctx context.Context) ([]string, error) {
	keys, err := a.storage.List(ctx, "scans/")
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return keys, nil
}

// ListBacktests returns the keys of all archived backtests for a symbol.
func (a *Archiver) ListBacktests(ctx context.Context, symbol string) ([]string, error) {
	keys, err := a.storage.List(ctx, "backtests/"+symbol+"/")
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return keys, nil
}

func (a *Archiver) write(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	if err := a.storage.Write(ctx, key, data); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}

func (a *Archiver) read(ctx context.Context, key string, v any) error {
	data, err := a.storage.Read(ctx, key)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}
