package pubsub

import "context"

type noop struct{}

// NewNoop returns a client that drops every event. Used when no cache
// backend is configured.
func NewNoop() Client {
	return &noop{}
}

func (n *noop) Publish(_ context.Context, _ string, _ Event) error { return nil }

func (n *noop) Subscribe(_ context.Context, _ string, _ EventHandler) {}

func (n *noop) Close() error { return nil }
