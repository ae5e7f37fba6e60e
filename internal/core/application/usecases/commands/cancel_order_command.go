package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
	ErrReasonIsRequired = errors.New("cancellation reason is required")
)

// CancelOrderCommand represents a request to cancel an order. The canceller
// is either the purchaser or an operator acting on their behalf; IsAdmin
// distinguishes the two for auditing.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	reason      string
	cancellerID kernel.UUID
	isAdmin     bool

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order with
// validation. The reason must be non-empty.
func NewCancelOrderCommand(
	orderID kernel.UUID,
	reason string,
	cancellerID kernel.UUID,
	isAdmin bool,
) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
		cmd.setCancellerID(cancellerID),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.isAdmin = isAdmin

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the cancellation reason.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}

// CancellerID returns the identifier of whoever requested cancellation.
func (c CancelOrderCommand) CancellerID() kernel.UUID {
	return c.cancellerID
}

// IsAdmin reports whether an operator, not the purchaser, cancelled.
func (c CancelOrderCommand) IsAdmin() bool {
	return c.isAdmin
}

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}

	c.reason = reason
	return nil
}

func (c *CancelOrderCommand) setCancellerID(cancellerID kernel.UUID) error {
	if err := cancellerID.Validate(); err != nil {
		return err
	}

	c.cancellerID = cancellerID
	return nil
}
