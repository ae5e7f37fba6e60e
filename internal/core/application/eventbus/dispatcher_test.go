package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

func confirmedEvent(t *testing.T) order.DomainEvent {
	t.Helper()
	return order.ConfirmedEvent{
		BaseEvent: order.BaseEvent{
			ID:        "evt-1",
			EventKind: order.OrderConfirmedKind,
			Subject:   kernel.NewUUID(),
			At:        time.Now().UTC(),
		},
		OrderNumber: "ORD-20260901-0001",
	}
}

func recordingHandler(calls *[]string, name string, err error) Handler {
	return HandlerFunc(func(ctx context.Context, event order.DomainEvent) error {
		*calls = append(*calls, name)
		return err
	})
}

func Test_Dispatcher_RequiresRegistry(t *testing.T) {
	_, err := NewDispatcher(nil, nil)
	assert.ErrorIs(t, err, ErrRegistryIsRequired)
}

func Test_Dispatcher_Publish(t *testing.T) {
	t.Run("runs handlers in ascending priority order", func(t *testing.T) {
		registry := NewRegistry()
		var calls []string
		registry.Subscribe(order.OrderConfirmedKind, 20, recordingHandler(&calls, "last", nil))
		registry.Subscribe(order.OrderConfirmedKind, 5, recordingHandler(&calls, "first", nil))
		registry.Subscribe(order.OrderConfirmedKind, 10, recordingHandler(&calls, "middle", nil))

		dispatcher, err := NewDispatcher(registry, nil)
		require.NoError(t, err)

		err = dispatcher.Publish(context.Background(), confirmedEvent(t))

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "middle", "last"}, calls)
	})

	t.Run("equal priorities keep registration order", func(t *testing.T) {
		registry := NewRegistry()
		var calls []string
		registry.Subscribe(order.OrderConfirmedKind, 10, recordingHandler(&calls, "a", nil))
		registry.Subscribe(order.OrderConfirmedKind, 10, recordingHandler(&calls, "b", nil))
		registry.Subscribe(order.OrderConfirmedKind, 10, recordingHandler(&calls, "c", nil))

		dispatcher, err := NewDispatcher(registry, nil)
		require.NoError(t, err)

		require.NoError(t, dispatcher.Publish(context.Background(), confirmedEvent(t)))
		assert.Equal(t, []string{"a", "b", "c"}, calls)
	})

	t.Run("a failing handler does not stop the rest", func(t *testing.T) {
		registry := NewRegistry()
		var calls []string
		registry.Subscribe(order.OrderConfirmedKind, 1, recordingHandler(&calls, "ok", nil))
		registry.Subscribe(order.OrderConfirmedKind, 2, recordingHandler(&calls, "boom", errors.New("smtp down")))
		registry.Subscribe(order.OrderConfirmedKind, 3, recordingHandler(&calls, "after", nil))

		dispatcher, err := NewDispatcher(registry, nil)
		require.NoError(t, err)

		err = dispatcher.Publish(context.Background(), confirmedEvent(t))

		require.NoError(t, err)
		assert.Equal(t, []string{"ok", "boom", "after"}, calls)
	})

	t.Run("a panicking handler does not stop the rest", func(t *testing.T) {
		registry := NewRegistry()
		var calls []string
		registry.Subscribe(order.OrderConfirmedKind, 1, HandlerFunc(func(ctx context.Context, event order.DomainEvent) error {
			calls = append(calls, "panics")
			panic("unexpected payload")
		}))
		registry.Subscribe(order.OrderConfirmedKind, 2, recordingHandler(&calls, "after", nil))

		dispatcher, err := NewDispatcher(registry, nil)
		require.NoError(t, err)

		require.NoError(t, dispatcher.Publish(context.Background(), confirmedEvent(t)))
		assert.Equal(t, []string{"panics", "after"}, calls)
	})

	t.Run("event kind without handlers is a no-op", func(t *testing.T) {
		registry := NewRegistry()
		var calls []string
		registry.Subscribe(order.OrderPaidKind, 1, recordingHandler(&calls, "paid", nil))

		dispatcher, err := NewDispatcher(registry, nil)
		require.NoError(t, err)

		require.NoError(t, dispatcher.Publish(context.Background(), confirmedEvent(t)))
		assert.Empty(t, calls)
	})

	t.Run("handlers are looked up per publish", func(t *testing.T) {
		registry := NewRegistry()
		var calls []string
		dispatcher, err := NewDispatcher(registry, nil)
		require.NoError(t, err)

		require.NoError(t, dispatcher.Publish(context.Background(), confirmedEvent(t)))
		require.Empty(t, calls)

		registry.Subscribe(order.OrderConfirmedKind, 1, recordingHandler(&calls, "late", nil))

		require.NoError(t, dispatcher.Publish(context.Background(), confirmedEvent(t)))
		assert.Equal(t, []string{"late"}, calls)
	})

	t.Run("nil event is rejected", func(t *testing.T) {
		dispatcher, err := NewDispatcher(NewRegistry(), nil)
		require.NoError(t, err)

		assert.Error(t, dispatcher.Publish(context.Background(), nil))
	})
}

func Test_Registry_Unsubscribe(t *testing.T) {
	registry := NewRegistry()
	var calls []string
	id := registry.Subscribe(order.OrderConfirmedKind, 1, recordingHandler(&calls, "removed", nil))
	registry.Subscribe(order.OrderConfirmedKind, 2, recordingHandler(&calls, "kept", nil))

	registry.Unsubscribe(order.OrderConfirmedKind, id)

	dispatcher, err := NewDispatcher(registry, nil)
	require.NoError(t, err)

	require.NoError(t, dispatcher.Publish(context.Background(), confirmedEvent(t)))
	assert.Equal(t, []string{"kept"}, calls)
}

func Test_Registry_EqualPriorityOrderSurvivesUnsubscribe(t *testing.T) {
	registry := NewRegistry()
	var calls []string
	id := registry.Subscribe(order.OrderConfirmedKind, 10, recordingHandler(&calls, "removed", nil))
	registry.Subscribe(order.OrderConfirmedKind, 10, recordingHandler(&calls, "a", nil))
	registry.Unsubscribe(order.OrderConfirmedKind, id)
	registry.Subscribe(order.OrderConfirmedKind, 10, recordingHandler(&calls, "b", nil))

	dispatcher, err := NewDispatcher(registry, nil)
	require.NoError(t, err)

	require.NoError(t, dispatcher.Publish(context.Background(), confirmedEvent(t)))
	assert.Equal(t, []string{"a", "b"}, calls)
}

func Test_Dispatcher_PublishAll(t *testing.T) {
	registry := NewRegistry()
	var kinds []order.EventKind
	handler := HandlerFunc(func(ctx context.Context, event order.DomainEvent) error {
		kinds = append(kinds, event.Kind())
		return nil
	})
	registry.Subscribe(order.OrderConfirmedKind, 1, handler)
	registry.Subscribe(order.OrderPaidKind, 1, handler)

	dispatcher, err := NewDispatcher(registry, nil)
	require.NoError(t, err)

	paid := order.PaidEvent{
		BaseEvent: order.BaseEvent{
			ID:        "evt-2",
			EventKind: order.OrderPaidKind,
			Subject:   kernel.NewUUID(),
			At:        time.Now().UTC(),
		},
	}

	err = dispatcher.PublishAll(context.Background(), []order.DomainEvent{confirmedEvent(t), paid})

	require.NoError(t, err)
	assert.Equal(t, []order.EventKind{order.OrderConfirmedKind, order.OrderPaidKind}, kinds)
}
