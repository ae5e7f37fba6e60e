// Package queries contains read-side operations of the CQRS architecture.
// Query handlers read the database directly with raw SQL and return plain
// response records; they never load or mutate domain aggregates.
package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its lines by order id.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderLineResponse is one line of an order in a query response.
type OrderLineResponse struct {
	ProductID           kernel.UUID
	ProductName         string
	Quantity            int
	UnitPrice           decimal.Decimal
	DiscountedUnitPrice decimal.Decimal
	DiscountDescription string
	Subtotal            decimal.Decimal
}

// GetOrderQueryResponse is the full read model of one order.
type GetOrderQueryResponse struct {
	ID          kernel.UUID
	OrderNumber string
	CustomerID  kernel.UUID

	Lines []OrderLineResponse

	ShippingAddress string
	ShippingPhone   string
	ReceiverName    string

	PaymentMethod string
	Status        string

	SubTotal      decimal.Decimal
	ShippingFee   decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalAmount   decimal.Decimal

	VoucherCode *string

	GiftWrap        bool
	GiftWrapMessage string

	ExpressDelivery bool

	Notes      string
	AdminNotes string

	CancellationReason string
	RequiresRefund     bool
	RefundAmount       decimal.Decimal

	TransactionID string

	EstimatedDeliveryDate *time.Time

	CreatedAt   time.Time
	ConfirmedAt *time.Time
	PaidAt      *time.Time
	CancelledAt *time.Time
}
