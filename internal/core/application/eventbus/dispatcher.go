package eventbus

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ErrRegistryIsRequired is returned when a Dispatcher is created without a
// handler registry.
var ErrRegistryIsRequired = errors.New("handler registry is required")

// Dispatcher fans out domain events to the handlers registered for each
// event kind. Dispatch is sequential in handler order, and a failing
// handler never prevents the remaining handlers from running: the error is
// logged and the loop continues. Publish itself only fails on mechanism
// misuse (nil event), never because a handler failed.
type Dispatcher struct {
	registry HandlerRegistry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher reading from the given registry.
func NewDispatcher(registry HandlerRegistry, logger *slog.Logger) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrRegistryIsRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger.With(slog.String("component", "eventbus")),
	}, nil
}

// Publish delivers the event to every handler registered for its kind.
// Handlers are looked up at publish time, so registrations made after a
// previous publish are picked up. An event kind with no handlers is a
// no-op.
func (d *Dispatcher) Publish(ctx context.Context, event order.DomainEvent) error {
	if event == nil {
		return errors.New("event is required")
	}

	for _, handler := range d.registry.HandlersFor(event.Kind()) {
		d.dispatch(ctx, handler, event)
	}
	return nil
}

// PublishAll delivers a batch of events through the single-event path, in
// slice order.
func (d *Dispatcher) PublishAll(ctx context.Context, events []order.DomainEvent) error {
	for _, event := range events {
		if err := d.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, handler Handler, event order.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				slog.String("eventKind", string(event.Kind())),
				slog.String("eventId", event.EventID()),
				slog.String("orderId", event.OrderID().String()),
				slog.Any("panic", r))
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		d.logger.Error("event handler failed",
			slog.String("eventKind", string(event.Kind())),
			slog.String("eventId", event.EventID()),
			slog.String("orderId", event.OrderID().String()),
			slog.Any("error", err))
	}
}

// Compile-time interface check.
var _ ports.EventPublisher = (*Dispatcher)(nil)
