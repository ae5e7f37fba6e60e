package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrPayOrderCommandIsNotConstructed = errors.New(
	"PayOrderCommand must be created via NewPayOrderCommand constructor",
)

// PayOrderCommand represents a request to settle payment for a confirmed
// order. ReturnURL and CancelURL steer the purchaser back from hosted
// gateway pages; Metadata is passed to the gateway untouched.
type PayOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	paymentMethod order.PaymentMethod

	returnURL string
	cancelURL string
	metadata  map[string]string

	guard guard.ConstructorGuard
}

// NewPayOrderCommand creates a command to pay an order with validation.
func NewPayOrderCommand(
	orderID kernel.UUID,
	paymentMethod order.PaymentMethod,
	returnURL, cancelURL string,
	metadata map[string]string,
) (PayOrderCommand, error) {
	cmd := PayOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return PayOrderCommand{}, err
	}

	cmd.returnURL = returnURL
	cmd.cancelURL = cancelURL
	cmd.metadata = metadata

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PayOrderCommand) Validate() error {
	return c.guard.Validate(ErrPayOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to pay.
func (c PayOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PaymentMethod returns the payment channel to settle through.
func (c PayOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// ReturnURL returns the URL the gateway redirects to on success.
func (c PayOrderCommand) ReturnURL() string {
	return c.returnURL
}

// CancelURL returns the URL the gateway redirects to on abandonment.
func (c PayOrderCommand) CancelURL() string {
	return c.cancelURL
}

// Metadata returns opaque key-value pairs forwarded to the gateway.
func (c PayOrderCommand) Metadata() map[string]string {
	return c.metadata
}

func (c *PayOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PayOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
