package order

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind identifies a domain event type. The dispatcher selects handlers
// by kind, so the set of kinds is the closed contract between the order core
// and its observers.
type EventKind string

const (
	OrderCreatedKind       EventKind = "OrderCreated"
	OrderConfirmedKind     EventKind = "OrderConfirmed"
	OrderPaidKind          EventKind = "OrderPaid"
	OrderPaymentFailedKind EventKind = "OrderPaymentFailed"
	OrderCancelledKind     EventKind = "OrderCancelled"
)

// DomainEvent is an immutable fact emitted after a successful state
// transition. Events are created once, consumed by zero or more observers,
// and never mutated.
type DomainEvent interface {
	// EventID returns the unique identifier of this event instance.
	EventID() string
	// Kind returns the event's type tag used for handler selection.
	Kind() EventKind
	// OrderID returns the identifier of the subject order.
	OrderID() kernel.UUID
	// OccurredAt returns when the transition happened.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by every domain event. Concrete event
// types embed it and add their kind-specific payload.
type BaseEvent struct {
	ID        string      `json:"id"`
	EventKind EventKind   `json:"kind"`
	Subject   kernel.UUID `json:"orderId"`
	At        time.Time   `json:"occurredAt"`
}

func newBaseEvent(kind EventKind, orderID kernel.UUID, at time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		EventKind: kind,
		Subject:   orderID,
		At:        at,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) Kind() EventKind       { return e.EventKind }
func (e BaseEvent) OrderID() kernel.UUID  { return e.Subject }
func (e BaseEvent) OccurredAt() time.Time { return e.At }

// CreatedEvent is emitted when the builder yields a new Pending order.
type CreatedEvent struct {
	BaseEvent
	CustomerID  kernel.UUID     `json:"customerId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// ConfirmedEvent is emitted when a Pending order is confirmed.
type ConfirmedEvent struct {
	BaseEvent
	OrderNumber           string          `json:"orderNumber"`
	ShippingFee           decimal.Decimal `json:"shippingFee"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	EstimatedDeliveryDate *time.Time      `json:"estimatedDeliveryDate,omitempty"`
}

// PaidEvent is emitted when a payment attempt succeeds.
type PaidEvent struct {
	BaseEvent
	OrderNumber   string          `json:"orderNumber"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
}

// PaymentFailedEvent is emitted when a payment attempt fails and the order
// moved to PaymentFailed.
type PaymentFailedEvent struct {
	BaseEvent
	OrderNumber string `json:"orderNumber"`
	Reason      string `json:"reason"`
}

// CancelledEvent is emitted when an order is cancelled. RequiresRefund is
// set when payment had already been captured; issuing the refund is the
// refund collaborator's job, not the core's.
type CancelledEvent struct {
	BaseEvent
	OrderNumber    string          `json:"orderNumber"`
	Reason         string          `json:"reason"`
	RequiresRefund bool            `json:"requiresRefund"`
	RefundAmount   decimal.Decimal `json:"refundAmount"`
}
