package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/ssisim/agent-sim-platform/internal/db"
)

const (
	dbService    = "db"
	cacheService = "cache"
)

// Ping interface
type Ping interface {
	Ping(ctx context.Context) error
}

// Status struct
type Status struct {
	pingers map[string]Ping
}

// New returns a Health instance
func New(pingers ...Ping) *Status {
	m := make(map[string]Ping)

	for _, p := range pingers {
		switch t := p.(type) {
		case *db.Storage:
			m[dbService] = t
		case redisPinger:
			m[cacheService] = t
		}
	}

	return &Status{m}
}

// Status returns whether each monitored dependency is reachable or not
func (h *Status) Status(ctx context.Context) map[string]bool {
	m := make(map[string]bool)

	for key, val := range h.pingers {
		m[key] = true
		if err := val.Ping(ctx); err != nil {
			m[key] = false
		}
	}

	return m
}

type redisPinger struct {
	rdb *redis.Client
}

// NewRedisPinger wraps a redis client into the Ping interface.
func NewRedisPinger(rdb *redis.Client) Ping {
	return redisPinger{rdb: rdb}
}

// Ping checks the connection to redis
func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
