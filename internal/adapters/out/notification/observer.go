package notification

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

var (
	// ErrOrderRepositoryIsRequired is returned when the observer is built
	// without an order repository.
	ErrOrderRepositoryIsRequired = errors.New("order repository is required")

	// ErrCustomerRepositoryIsRequired is returned when the observer is built
	// without a customer repository.
	ErrCustomerRepositoryIsRequired = errors.New("customer repository is required")

	// ErrSenderFactoryIsRequired is returned when the observer is built
	// without a sender factory.
	ErrSenderFactoryIsRequired = errors.New("sender factory is required")
)

// Observer notifies the purchaser about order lifecycle transitions. It is
// registered on the event bus for every event kind and resolves the delivery
// channel from the customer's loyalty tier.
type Observer struct {
	orders    ports.OrderRepository
	customers ports.CustomerRepository
	senders   SenderFactory
}

// NewObserver creates a notification observer.
func NewObserver(
	orders ports.OrderRepository,
	customers ports.CustomerRepository,
	senders SenderFactory,
) (*Observer, error) {
	if orders == nil {
		return nil, ErrOrderRepositoryIsRequired
	}
	if customers == nil {
		return nil, ErrCustomerRepositoryIsRequired
	}
	if senders == nil {
		return nil, ErrSenderFactoryIsRequired
	}

	return &Observer{
		orders:    orders,
		customers: customers,
		senders:   senders,
	}, nil
}

// Handle looks up the order and its purchaser and sends the notification for
// the transition the event describes.
func (o *Observer) Handle(ctx context.Context, event order.DomainEvent) error {
	aggregate, err := o.orders.Get(ctx, event.OrderID())
	if err != nil {
		return fmt.Errorf("load order %s: %w", event.OrderID().String(), err)
	}

	purchaser, err := o.customers.Get(ctx, aggregate.CustomerID())
	if err != nil {
		return fmt.Errorf("load customer %s: %w", aggregate.CustomerID().String(), err)
	}

	message, ok := composeMessage(event, aggregate.OrderNumber())
	if !ok {
		return nil
	}

	recipient := Recipient{
		Name:  purchaser.Name(),
		Email: purchaser.Email(),
		Phone: purchaser.Phone(),
	}

	sender := o.senders.SenderFor(purchaser.Tier())
	return sender.Send(ctx, recipient, message)
}

// composeMessage maps an event to the purchaser-facing text. Unknown kinds
// produce no notification.
func composeMessage(event order.DomainEvent, orderNumber string) (Message, bool) {
	switch e := event.(type) {
	case order.CreatedEvent:
		return Message{
			Subject: fmt.Sprintf("Order %s received", orderNumber),
			Body:    fmt.Sprintf("We received your order %s totalling %s. We will confirm it shortly.", orderNumber, e.TotalAmount.String()),
		}, true
	case order.ConfirmedEvent:
		body := fmt.Sprintf("Your order %s is confirmed.", orderNumber)
		if e.EstimatedDeliveryDate != nil {
			body = fmt.Sprintf("%s Estimated delivery: %s.", body, e.EstimatedDeliveryDate.Format("2006-01-02"))
		}
		return Message{
			Subject: fmt.Sprintf("Order %s confirmed", orderNumber),
			Body:    body,
		}, true
	case order.PaidEvent:
		return Message{
			Subject: fmt.Sprintf("Payment received for order %s", orderNumber),
			Body:    fmt.Sprintf("We received your payment of %s for order %s.", e.Amount.String(), orderNumber),
		}, true
	case order.PaymentFailedEvent:
		return Message{
			Subject: fmt.Sprintf("Payment failed for order %s", orderNumber),
			Body:    fmt.Sprintf("Your payment for order %s did not go through: %s. You can retry from your orders page.", orderNumber, e.Reason),
		}, true
	case order.CancelledEvent:
		body := fmt.Sprintf("Your order %s was cancelled: %s.", orderNumber, e.Reason)
		if e.RequiresRefund {
			body = fmt.Sprintf("%s A refund of %s is on its way.", body, e.RefundAmount.String())
		}
		return Message{
			Subject: fmt.Sprintf("Order %s cancelled", orderNumber),
			Body:    body,
		}, true
	default:
		return Message{}, false
	}
}
