package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"messenger-fixtures/internal/notification"
	"messenger-fixtures/pkg/events"
)

type Subscriber struct {
	broker events.Subscriber
}

func NewSubscriber(broker events.Subscriber) *Subscriber {
	return &Subscriber{broker: broker}
}

// SubscribeNotifications decodes notification events from every conversation
// channel and hands them to handler until ctx is done.
func (s *Subscriber) SubscribeNotifications(ctx context.Context, handler func(channel string, n notification.Notification)) error {
	return s.broker.Subscribe(ctx, NotificationPattern, func(ctx context.Context, channel string, event events.Event) error {
		if event.Type != events.TypeNotification {
			return nil
		}
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		var n notification.Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("decode notification: %w", err)
		}
		handler(channel, n)
		return nil
	})
}

// SubscribeBatches decodes batch lifecycle events until ctx is done.
func (s *Subscriber) SubscribeBatches(ctx context.Context, handler func(e BatchEvent)) error {
	return s.broker.Subscribe(ctx, BatchChannel, func(ctx context.Context, _ string, event events.Event) error {
		if event.Type != events.TypeBatch {
			return nil
		}
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		var e BatchEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("decode batch event: %w", err)
		}
		handler(e)
		return nil
	})
}
