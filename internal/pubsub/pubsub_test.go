package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	payload string
}

func (e *testEvent) Marshal() (Message, error) {
	return Message(e.payload), nil
}

func (e *testEvent) Unmarshal(msg Message) error {
	e.payload = string(msg)
	return nil
}

func TestRedisPublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client := NewRedis(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	client.Subscribe(ctx, "credential-issued", func(_ context.Context, msg Message) error {
		received <- string(msg)
		return nil
	})

	// subscription is established asynchronously
	require.Eventually(t, func() bool {
		if err := client.Publish(ctx, "credential-issued", &testEvent{payload: "hello"}); err != nil {
			return false
		}
		select {
		case got := <-received:
			assert.Equal(t, "hello", got)
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNoopClient(t *testing.T) {
	client := NewNoop()
	assert.NoError(t, client.Publish(context.Background(), "t", &testEvent{}))
	client.Subscribe(context.Background(), "t", func(context.Context, Message) error { return nil })
	assert.NoError(t, client.Close())
}
