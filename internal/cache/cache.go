// Package cache is the read-through cache in front of the approval store.
// Backends are swappable; the workflow service only sees this interface.
package cache

import (
    "context"
    "time"
)

// Cache is a byte-value cache with prefix deletion. Implementations must
// be safe for concurrent use.
type Cache interface {
    Get(ctx context.Context, key string) ([]byte, bool, error)
    Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
    Delete(ctx context.Context, keys ...string) error
    // DeletePrefix removes every key that begins with prefix.
    DeletePrefix(ctx context.Context, prefix string) error
}
