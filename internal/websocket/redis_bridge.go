package websocket

import (
	"context"

	"messenger-fixtures/internal/notification"
)

type NotificationSubscriber interface {
	SubscribeNotifications(ctx context.Context, handler func(channel string, n notification.Notification)) error
}

// RedisBridge feeds notifications published by any instance into the local hub.
type RedisBridge struct {
	subscriber NotificationSubscriber
	hub        *Hub
}

func NewRedisBridge(subscriber NotificationSubscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.SubscribeNotifications(ctx, func(_ string, n notification.Notification) {
		b.hub.Deliver(n)
	})
}
