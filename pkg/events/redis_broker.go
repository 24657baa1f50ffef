package events

import (
	"context"
	"encoding/json"
	"fmt"

	"messenger-fixtures/pkg/logger"

	"github.com/redis/go-redis/v9"
)

type RedisBroker struct {
	Client *redis.Client
	log    *logger.Logger
}

func NewRedisBroker(client *redis.Client, l *logger.Logger) *RedisBroker {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &RedisBroker{Client: client, log: l}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.Client.Publish(ctx, channel, data).Err()
}

// Subscribe pattern-subscribes and dispatches decoded events until ctx is done.
// The subscription is confirmed before Subscribe returns.
func (b *RedisBroker) Subscribe(ctx context.Context, pattern string, handler Handler) error {
	pubsub := b.Client.PSubscribe(ctx, pattern)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", pattern, err)
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.Warnf("error unmarshaling event on %s: %v", msg.Channel, err)
					continue
				}
				if err := handler(ctx, msg.Channel, event); err != nil {
					b.log.Warnf("error handling event on %s: %v", msg.Channel, err)
				}
			}
		}
	}()

	return nil
}
