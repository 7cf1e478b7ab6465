// internal/storage/snapshot/redis_test.go
package snapshot

import (
	"testing"
	"time"
)

func TestRedisStore_ImplementsStore(t *testing.T) {
	var _ Store = (*RedisStore)(nil)
}

func TestRedisKey(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"AAPL", "tsd:snapshot:AAPL"},
		{"BTC-USD", "tsd:snapshot:BTC-USD"},
		{"EURUSD=X", "tsd:snapshot:EURUSD=X"},
	}

	for _, tt := range tests {
		if got := redisKey(tt.symbol); got != tt.want {
			t.Errorf("redisKey(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func TestNewRedis(t *testing.T) {
	store := NewRedis("localhost:6379", "", 0, 5*time.Minute)
	if store == nil {
		t.Fatal("expected non-nil store")
	}
	if store.ttl != 5*time.Minute {
		t.Errorf("expected ttl 5m, got %s", store.ttl)
	}
	store.Close()
}
