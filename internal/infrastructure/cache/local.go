package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"library-backend/pkg/cache"
)

// LocalCache is an in-process cache.Cache on ristretto. Values are stored
// JSON-encoded so Get has the same copy semantics as Redis.
type LocalCache struct {
	store *ristretto.Cache[string, []byte]
}

// NewLocalCache sizes the cache by total encoded bytes
func NewLocalCache(maxBytes int64) (*LocalCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10 * (maxBytes / 256),
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create local cache: %w", err)
	}
	return &LocalCache{store: store}, nil
}

var _ cache.Cache = (*LocalCache)(nil)

func (c *LocalCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.store.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set is visible to Get once ristretto's buffers have been applied; Set
// waits for that so a read right after a write hits.
func (c *LocalCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	c.store.SetWithTTL(key, raw, int64(len(raw)), ttl)
	c.store.Wait()
	return nil
}

func (c *LocalCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.store.Del(k)
	}
	return nil
}

func (c *LocalCache) Ping(context.Context) error {
	return nil
}

func (c *LocalCache) Close() {
	c.store.Close()
}
