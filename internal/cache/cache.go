// Package cache provides the byte cache used to avoid refetching price
// history on every request.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values with a TTL. Implementations are goroutine-safe.
type Cache interface {
	// Get returns the value and true on a hit, false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}
