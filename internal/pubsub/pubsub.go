package pubsub

import (
	"context"

	"github.com/ssisim/agent-sim-platform/internal/config"
	"github.com/ssisim/agent-sim-platform/internal/log"
)

// Event defines the payload
type Event interface {
	Marshal() (msg Message, err error)
	Unmarshal(msg Message) error
}

// Message is the payload received in a pubsub subscriber. The input for callback functions
type Message []byte

// Publisher sends topics to the pubsub
type Publisher interface {
	Publish(ctx context.Context, topic string, payload Event) error
}

// EventHandler is the type that functions that handle an Event must comply.
type EventHandler func(context.Context, Message) error

// Subscriber subscribes to the pubsub topics
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, callback EventHandler)
}

// Client is formed by the publisher and subscriber
type Client interface {
	Publisher
	Subscriber
	Close() error
}

// NewPubSub creates a new pubsub client based on the configuration. A
// configuration without a cache provider yields the no-op client.
func NewPubSub(ctx context.Context, cfg config.Configuration) (Client, error) {
	if cfg.Cache.Provider == config.CacheProviderRedis {
		rdb, err := openRedis(ctx, cfg.Cache.Url)
		if err != nil {
			log.Error(ctx, "cannot connect to redis", "err", err, "host", cfg.Cache.Url)
			return nil, err
		}
		return NewRedis(rdb), nil
	}
	return NewNoop(), nil
}
