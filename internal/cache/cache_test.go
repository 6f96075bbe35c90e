package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssisim/agent-sim-platform/internal/config"
)

func testCaches(t *testing.T) map[string]Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]Cache{
		"redis":  NewRedisCache(rdb),
		"memory": NewMemoryCache(),
	}
}

func TestCacheSetGet(t *testing.T) {
	ctx := context.Background()
	for name, c := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			type payload struct {
				Label string `json:"label"`
				Count int    `json:"count"`
			}
			require.NoError(t, c.Set(ctx, "k1", payload{Label: "holder", Count: 2}, time.Minute))

			var got payload
			require.True(t, c.Get(ctx, "k1", &got))
			assert.Equal(t, payload{Label: "holder", Count: 2}, got)

			assert.True(t, c.Exists(ctx, "k1"))
			assert.False(t, c.Exists(ctx, "nope"))

			var missing payload
			assert.False(t, c.Get(ctx, "nope", &missing))
		})
	}
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	for name, c := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "k1", "v1", ForEver))
			require.NoError(t, c.Delete(ctx, "k1"))
			assert.False(t, c.Exists(ctx, "k1"))
		})
	}
}

func TestNewCacheClient(t *testing.T) {
	ctx := context.Background()

	t.Run("none provider", func(t *testing.T) {
		c, rdb, err := NewCacheClient(ctx, config.Configuration{
			Cache: config.Cache{Provider: config.CacheProviderNone},
		})
		require.NoError(t, err)
		assert.Nil(t, rdb)

		require.NoError(t, c.Set(ctx, "k1", "v1", time.Minute))
		var got string
		require.True(t, c.Get(ctx, "k1", &got))
		assert.Equal(t, "v1", got)
	})

	t.Run("redis provider shares the client", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, rdb, err := NewCacheClient(ctx, config.Configuration{
			Cache: config.Cache{Provider: config.CacheProviderRedis, Url: "redis://" + mr.Addr()},
		})
		require.NoError(t, err)
		require.NotNil(t, rdb)

		require.NoError(t, c.Set(ctx, "k1", "v1", time.Minute))
		assert.True(t, c.Exists(ctx, "k1"))
		assert.NoError(t, rdb.Ping(ctx).Err())
	})

	t.Run("unreachable redis", func(t *testing.T) {
		_, _, err := NewCacheClient(ctx, config.Configuration{
			Cache: config.Cache{Provider: config.CacheProviderRedis, Url: "redis://127.0.0.1:1"},
		})
		require.Error(t, err)
	})
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := &NullCache{}
	require.NoError(t, c.Set(ctx, "k1", "v1", ForEver))
	var v string
	assert.False(t, c.Get(ctx, "k1", &v))
	assert.False(t, c.Exists(ctx, "k1"))
	require.NoError(t, c.Delete(ctx, "k1"))
}
