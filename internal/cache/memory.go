package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

type memoryCache struct {
	mem *gocache.Cache
}

// NewMemoryCache returns an in process memory cache. Entries are stored as
// json so Get behaves like the redis implementation.
func NewMemoryCache() Cache {
	return &memoryCache{mem: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Set sets a new entry in the memory cache
func (c *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == ForEver {
		ttl = gocache.NoExpiration
	}
	c.mem.Set(key, raw, ttl)
	return nil
}

// Get returns an entry from the memory cache. value must be passed as reference
func (c *memoryCache) Get(_ context.Context, key string, value any) bool {
	raw, found := c.mem.Get(key)
	if !found {
		return false
	}
	b, ok := raw.([]byte)
	if !ok {
		return false
	}
	return json.Unmarshal(b, value) == nil
}

// Exists returns true if the key exists in the memory cache
func (c *memoryCache) Exists(_ context.Context, key string) bool {
	_, found := c.mem.Get(key)
	return found
}

// Delete removes an entry from the memory cache
func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mem.Delete(key)
	return nil
}
