package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// EventPublisher delivers domain events to registered observers after a
// command's transaction has committed. Implemented by the event dispatcher.
type EventPublisher interface {
	// Publish delivers one event to every observer registered for its kind.
	// Observer failures are isolated and never surface here; Publish only
	// fails when the dispatch mechanism itself errors.
	Publish(ctx context.Context, event order.DomainEvent) error

	// PublishAll delivers a batch of heterogeneous events in the given
	// sequence, each via the single-event path.
	PublishAll(ctx context.Context, events []order.DomainEvent) error
}
