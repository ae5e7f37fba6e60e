package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand represents an operator's request to confirm a Pending
// order, optionally overriding the shipping fee and attaching admin notes
// and a delivery estimate.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	confirmerID kernel.UUID

	shippingFee           *decimal.Decimal
	adminNotes            string
	estimatedDeliveryDate *time.Time

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm an order. The
// optional shipping fee must not be negative.
func NewConfirmOrderCommand(
	orderID kernel.UUID,
	confirmerID kernel.UUID,
	shippingFee *decimal.Decimal,
	adminNotes string,
	estimatedDeliveryDate *time.Time,
) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setConfirmerID(confirmerID),
		cmd.setShippingFee(shippingFee),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	cmd.adminNotes = adminNotes
	cmd.estimatedDeliveryDate = estimatedDeliveryDate

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to confirm.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ConfirmerID returns the identifier of the confirming operator.
func (c ConfirmOrderCommand) ConfirmerID() kernel.UUID {
	return c.confirmerID
}

// ShippingFee returns the optional shipping-fee override, nil when the fee
// computed at build time stands.
func (c ConfirmOrderCommand) ShippingFee() *decimal.Decimal {
	return c.shippingFee
}

// AdminNotes returns the confirming operator's notes.
func (c ConfirmOrderCommand) AdminNotes() string {
	return c.adminNotes
}

// EstimatedDeliveryDate returns the optional delivery estimate.
func (c ConfirmOrderCommand) EstimatedDeliveryDate() *time.Time {
	return c.estimatedDeliveryDate
}

func (c *ConfirmOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setConfirmerID(confirmerID kernel.UUID) error {
	if err := confirmerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("confirmer", err)
	}

	c.confirmerID = confirmerID
	return nil
}

func (c *ConfirmOrderCommand) setShippingFee(fee *decimal.Decimal) error {
	if fee != nil && fee.IsNegative() {
		return errs.NewValueIsInvalidError("shipping fee must not be negative")
	}

	c.shippingFee = fee
	return nil
}
