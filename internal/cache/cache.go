package cache

import (
	"context"
	"slices"
	"sync"

	"barbercash/backend/internal/store"
)

var (
	_ store.LocalCache = (*MemoryCache)(nil)
	_ store.LocalCache = (*SQLiteCache)(nil)
	_ store.LocalCache = (*RedisCache)(nil)
)

// MemoryCache keeps entries for the lifetime of the process only.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(val), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.entries[key] = slices.Clone(value)
	c.mu.Unlock()
	return nil
}
