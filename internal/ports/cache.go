package ports

import (
	"context"
	"time"
)

// Cache is the byte-level cache used by the list-view fetcher. The
// redis adapter implements it in production; tests use an in-memory
// fake.
type Cache interface {
	// Get returns the cached value, or nil with no error on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}
