package pubsub

import "context"

// NoopPubSub discards published events and returns empty subscriptions.
// Used when no event bus is configured; the notification rows in the
// database remain the durable record either way.
type NoopPubSub struct{}

// NewNoopPubSub creates a no-op PubSub instance.
func NewNoopPubSub() *NoopPubSub {
	return &NoopPubSub{}
}

func (n *NoopPubSub) Publish(ctx context.Context, channel string, event *Event) error {
	return nil
}

func (n *NoopPubSub) Subscribe(ctx context.Context, channel string) (<-chan *Event, error) {
	ch := make(chan *Event)
	close(ch)
	return ch, nil
}

func (n *NoopPubSub) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (n *NoopPubSub) Close() error { return nil }
