// internal/storage/snapshot/redis.go
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

const redisKeyPrefix = "tsd:snapshot:"

// RedisStore caches snapshots in Redis so restarts and multiple
// replicas share the same view.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed snapshot store. The connection is
// established lazily; the first operation surfaces connectivity errors.
func NewRedis(addr, password string, db int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func redisKey(symbol string) string {
	return redisKeyPrefix + symbol
}

// Put stores the snapshot for its symbol.
func (r *RedisStore) Put(ctx context.Context, snap *core.DashboardSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}

	if err := r.client.Set(ctx, redisKey(snap.Symbol), data, r.ttl).Err(); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}

// Get retrieves the snapshot for a symbol.
func (r *RedisStore) Get(ctx context.Context, symbol string) (*core.DashboardSnapshot, error) {
	data, err := r.client.Get(ctx, redisKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}

	var snap core.DashboardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return &snap, nil
}

// Symbols lists symbols with a cached snapshot.
func (r *RedisStore) Symbols(ctx context.Context) ([]string, error) {
	keys, err := r.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}

	symbols := make([]string, 0, len(keys))
	for _, key := range keys {
		symbols = append(symbols, strings.TrimPrefix(key, redisKeyPrefix))
	}
	return symbols, nil
}

// Close shuts down the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
