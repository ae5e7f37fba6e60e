package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// PaymentChargeRequest carries the inputs of a payment attempt.
type PaymentChargeRequest struct {
	OrderID     string
	OrderNumber string
	Amount      decimal.Decimal
	ReturnURL   string
	CancelURL   string
	Metadata    map[string]string
}

// PaymentGateway defines the collaborator contract for one payment channel.
// The core treats the result as opaque; gateway protocol details never leak
// into the domain.
type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentChargeRequest) (order.PaymentResult, error)
}

// PaymentGatewayRegistry resolves the gateway serving a payment method.
// Methods that do not require online payment have no gateway.
type PaymentGatewayRegistry interface {
	// GatewayFor returns the gateway for the method, or an error when the
	// method requires online payment and no gateway is registered.
	GatewayFor(method order.PaymentMethod) (PaymentGateway, error)
}
