package pubsub

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/ssisim/agent-sim-platform/internal/log"
)

type redisClient struct {
	rdb *redis.Client
}

// NewRedis returns a pubsub client backed by redis channels.
func NewRedis(rdb *redis.Client) Client {
	return &redisClient{rdb: rdb}
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if pingCmd := rdb.Ping(ctx); pingCmd.Err() != nil {
		return nil, pingCmd.Err()
	}
	return rdb, nil
}

// Publish marshals the event and sends it over the topic channel.
func (c *redisClient) Publish(ctx context.Context, topic string, event Event) error {
	msg, err := event.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshalling event")
	}
	if err := c.rdb.Publish(ctx, topic, []byte(msg)).Err(); err != nil {
		return errors.Wrapf(err, "publishing on topic %s", topic)
	}
	return nil
}

// Subscribe registers the callback on the topic. The callback runs in a
// separate goroutine until the context is cancelled.
func (c *redisClient) Subscribe(ctx context.Context, topic string, callback EventHandler) {
	sub := c.rdb.Subscribe(ctx, topic)
	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := callback(ctx, Message(msg.Payload)); err != nil {
					log.Error(ctx, "pubsub callback", "err", err, "topic", topic)
				}
			}
		}
	}()
}

// Close closes the underlying redis connection
func (c *redisClient) Close() error {
	return c.rdb.Close()
}
