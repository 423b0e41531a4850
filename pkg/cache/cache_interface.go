package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer, satisfied by Redis and an
// in-process store.
type Cache interface {
	// Get reads key into dest.
	// Returns: (found bool, error)
	// - found = true: cache hit, dest is populated
	// - found = false: cache miss, dest is unchanged
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with ttl; ttl <= 0 means no expiry
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the backend
	Ping(ctx context.Context) error
}
