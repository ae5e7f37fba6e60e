package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
)

// ConfirmOrderResult is the outcome of a successful confirmation.
type ConfirmOrderResult struct {
	OrderNumber           string
	TotalAmount           decimal.Decimal
	ShippingFee           decimal.Decimal
	EstimatedDeliveryDate *time.Time
	RequiresOnlinePayment bool
	Message               string
}

// ConfirmOrderCommandHandler handles the business logic for order
// confirmation. Stock for every line is reserved in the same transaction
// that persists the transition, so a failed reservation leaves both the
// order and the stock untouched.
type ConfirmOrderCommandHandler struct {
	uowFactory StoreUoWFactory
	publisher  ports.EventPublisher
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation
// operations.
func NewConfirmOrderCommandHandler(uowFactory StoreUoWFactory, publisher ports.EventPublisher) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the order confirmation command.
// Loads the order, reserves stock for each line, applies the Confirm
// transition with the optional fee override, persists, and publishes the
// recorded event after commit.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (ConfirmOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConfirmOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ConfirmOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return ConfirmOrderResult{}, err
	}

	productRepo := uow.ProductRepository()
	for _, line := range aggregate.Lines() {
		if err = productRepo.ReserveStock(ctx, line.ProductID(), line.Quantity()); err != nil {
			return ConfirmOrderResult{}, err
		}
	}

	if err = aggregate.Confirm(cmd.ShippingFee(), cmd.EstimatedDeliveryDate(), cmd.AdminNotes()); err != nil {
		return ConfirmOrderResult{}, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return ConfirmOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmOrderResult{}, err
	}

	result := ConfirmOrderResult{
		OrderNumber:           aggregate.OrderNumber(),
		TotalAmount:           aggregate.TotalAmount(),
		ShippingFee:           aggregate.ShippingFee(),
		EstimatedDeliveryDate: aggregate.EstimatedDeliveryDate(),
		RequiresOnlinePayment: aggregate.PaymentMethod().RequiresOnlinePayment(),
		Message:               fmt.Sprintf("order %s confirmed", aggregate.OrderNumber()),
	}

	if err = h.publisher.PublishAll(ctx, aggregate.PopEvents()); err != nil {
		return result, err
	}

	return result, nil
}
