package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ssisim/agent-sim-platform/internal/config"
	"github.com/ssisim/agent-sim-platform/internal/event"
	"github.com/ssisim/agent-sim-platform/internal/log"
	"github.com/ssisim/agent-sim-platform/internal/pubsub"
)

// Listens to the lifecycle topics and logs every transition. Stands in for
// a push notification gateway towards the simulated phones.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error(context.Background(), "cannot load config", "err", err)
		return
	}

	ctx := log.NewContext(context.Background(), cfg.Log.Level, cfg.Log.Mode, os.Stdout)

	if cfg.Cache.Provider != config.CacheProviderRedis {
		log.Error(ctx, "notifications require a redis cache provider")
		return
	}

	ps, err := pubsub.NewPubSub(ctx, *cfg)
	if err != nil {
		log.Error(ctx, "cannot initialize pubsub", "err", err)
		return
	}
	defer func() {
		_ = ps.Close()
	}()

	topics := []string{
		event.TopicConnectionCreated,
		event.TopicConnectionEstablished,
		event.TopicCredentialIssued,
		event.TopicCredentialAccepted,
		event.TopicProofRequested,
		event.TopicProofPresented,
	}
	for _, topic := range topics {
		ps.Subscribe(ctx, topic, notify(topic))
	}
	log.Info(ctx, "listening for lifecycle events", "topics", len(topics))

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	<-gracefulShutdown
}

func notify(topic string) pubsub.EventHandler {
	return func(ctx context.Context, msg pubsub.Message) error {
		var ev event.Lifecycle
		if err := ev.Unmarshal(msg); err != nil {
			return err
		}
		log.Info(ctx, "lifecycle event", "topic", topic, "recordId", ev.RecordID, "connectionId", ev.ConnectionID, "status", ev.Status)
		return nil
	}
}
