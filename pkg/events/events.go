package events

import "context"

const (
	TypeNotification = "notification"
	TypeBatch        = "fixture.batch"
)

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

type Handler func(ctx context.Context, channel string, event Event) error

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, pattern string, handler Handler) error
}

type Broker interface {
	Publisher
	Subscriber
}
