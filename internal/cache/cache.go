package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ssisim/agent-sim-platform/internal/config"
	"github.com/ssisim/agent-sim-platform/internal/log"
)

// ForEver means the entry could be cached forever
const ForEver = 0 * time.Second

// Cache interface proposes an interface that any cache should adhere
type Cache interface {
	// Set sets a value in the cache accessible by the key. The ttl param is the maximum time to live in the cache
	// a ttl=0 means that the entry could be cached forever
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Get searches for a non expired entry in the cache and returns the result in the value variable sent as reference.
	// You should only trust the returned value if the returned bool is true
	Get(ctx context.Context, key string, value any) bool
	// Exists tells whether a key exists in the cache with a valid ttl
	Exists(ctx context.Context, key string) bool
	// Delete removes an entry from the cache.
	Delete(ctx context.Context, key string) error
}

// NewCacheClient creates a new cache client based on the configuration.
// With the redis provider it also returns the underlying client, so
// callers can reuse the same connection for pubsub and health pings; with
// any other provider the returned client is nil.
func NewCacheClient(ctx context.Context, cfg config.Configuration) (Cache, *redis.Client, error) {
	if cfg.Cache.Provider == config.CacheProviderRedis {
		rdb, err := Open(ctx, cfg.Cache.Url)
		if err != nil {
			log.Error(ctx, "cannot connect to redis", "err", err, "host", cfg.Cache.Url)
			return nil, nil, err
		}
		return NewRedisCache(rdb), rdb, nil
	}
	return NewMemoryCache(), nil, nil
}
