package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
)

// ErrNotOrderOwner is returned when a non-admin canceller is not the
// purchaser of the order.
var ErrNotOrderOwner = errors.New("only the purchaser or an admin can cancel the order")

// CancelOrderResult is the outcome of a successful cancellation.
// RequiresRefund signals the refund collaborator that money is owed; the
// core records the obligation without issuing it.
type CancelOrderResult struct {
	OrderNumber    string
	RequiresRefund bool
	RefundAmount   decimal.Decimal
	Message        string
	CancelledAt    time.Time
}

// CancelOrderCommandHandler handles the business logic for order
// cancellation.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation
// operations.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the order cancellation command.
// Non-admin cancellers must own the order. The Cancel transition flags the
// refund obligation when payment was already captured.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (CancelOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CancelOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CancelOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return CancelOrderResult{}, err
	}

	if !cmd.IsAdmin() && !aggregate.CustomerID().IsEqual(cmd.CancellerID()) {
		return CancelOrderResult{}, ErrNotOrderOwner
	}

	if err = aggregate.Cancel(cmd.Reason()); err != nil {
		return CancelOrderResult{}, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return CancelOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CancelOrderResult{}, err
	}

	result := CancelOrderResult{
		OrderNumber:    aggregate.OrderNumber(),
		RequiresRefund: aggregate.RequiresRefund(),
		RefundAmount:   aggregate.RefundAmount(),
		Message:        fmt.Sprintf("order %s cancelled", aggregate.OrderNumber()),
		CancelledAt:    *aggregate.CancelledAt(),
	}

	if err = h.publisher.PublishAll(ctx, aggregate.PopEvents()); err != nil {
		return result, err
	}

	return result, nil
}
