package redis

import (
	"context"
	"fmt"
	"time"

	"messenger-fixtures/internal/faker"
	"messenger-fixtures/internal/notification"
	fixture_errors "messenger-fixtures/pkg/errors"
	"messenger-fixtures/pkg/events"
)

const (
	// NotificationPattern matches every per-conversation notification channel.
	NotificationPattern = "notifications:*"
	// BatchChannel carries batch lifecycle events.
	BatchChannel = "fixtures:batches"
)

const (
	BatchGenerated = "generated"
	BatchDiscarded = "discarded"
)

// BatchEvent is the payload of a fixture.batch event.
type BatchEvent struct {
	Name   string            `json:"name"`
	Action string            `json:"action"`
	Counts faker.BatchCounts `json:"counts"`
}

func NotificationChannel(conversationPK string) string {
	return fmt.Sprintf("notifications:%s", conversationPK)
}

type Publisher struct {
	broker events.Publisher
}

func NewPublisher(broker events.Publisher) *Publisher {
	return &Publisher{broker: broker}
}

// PublishNotification fans a resolved notification out on the channel of the
// conversation it routes to.
func (p *Publisher) PublishNotification(ctx context.Context, n notification.Notification) error {
	conv := n.Route.Params["convId"]
	if conv == "" {
		return fmt.Errorf("notification without conversation: %w", fixture_errors.ErrInvalidArgument)
	}
	return p.broker.Publish(ctx, NotificationChannel(conv), events.Event{
		Type:      events.TypeNotification,
		Payload:   n,
		Timestamp: time.Now().UnixMilli(),
	})
}

// PublishBatch announces that the batch called name was generated or discarded.
func (p *Publisher) PublishBatch(ctx context.Context, name, action string, counts faker.BatchCounts) error {
	return p.broker.Publish(ctx, BatchChannel, events.Event{
		Type:      events.TypeBatch,
		Payload:   BatchEvent{Name: name, Action: action, Counts: counts},
		Timestamp: time.Now().UnixMilli(),
	})
}
