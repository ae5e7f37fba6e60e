package commands

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
)

// CreateOrderResult is the outcome of a successful order creation.
// PaymentURL stays empty at creation; online methods obtain it from the
// PayOrder command.
type CreateOrderResult struct {
	OrderID     kernel.UUID
	OrderNumber string
	TotalAmount decimal.Decimal
	Status      order.Status
	PaymentURL  string
	Warnings    []string
	Message     string
}

// CreateOrderCommandHandler handles the business logic for order creation.
// Builds the order through the order builder, persists it in one
// transaction, redeems the applied voucher, and publishes the recorded
// events after commit.
type CreateOrderCommandHandler struct {
	builderFactory OrderBuilderFactory
	uowFactory     OrderUoWFactory
	vouchers       ports.VoucherService
	publisher      ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order creation
// operations.
func NewCreateOrderCommandHandler(
	builderFactory OrderBuilderFactory,
	uowFactory OrderUoWFactory,
	vouchers ports.VoucherService,
	publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		builderFactory: builderFactory,
		uowFactory:     uowFactory,
		vouchers:       vouchers,
		publisher:      publisher,
	}
}

// Handle processes the order creation command.
// The build runs outside the transaction; persisting the order and
// redeeming the applied voucher share one unit of work, so a redemption
// failure rolls the order back. Event publication happens after a
// successful commit, so a publish mechanism error surfaces alongside an
// already-persisted order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	builder := h.builderFactory.Create()
	builder.
		ForCustomerID(cmd.CustomerID()).
		WithShippingInfo(cmd.ShippingAddress(), cmd.ShippingPhone(), cmd.ReceiverName()).
		WithPaymentMethod(cmd.PaymentMethod())

	for _, item := range cmd.Items() {
		builder.AddItem(item.ProductID, item.Quantity)
	}
	if cmd.VoucherCode() != "" {
		builder.WithVoucher(cmd.VoucherCode())
	}
	if cmd.Notes() != "" {
		builder.WithNotes(cmd.Notes())
	}
	if cmd.IsGiftWrap() {
		builder.WithGiftWrap(cmd.GiftWrapMessage(), cmd.GiftWrapFee())
	}
	if cmd.IsExpressDelivery() {
		builder.WithExpressDelivery()
	}

	built, report, err := builder.Build(ctx)
	if err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, built); err != nil {
		return CreateOrderResult{}, err
	}

	if report.AppliedVoucherCode != nil {
		if err = h.vouchers.Redeem(ctx, *report.AppliedVoucherCode, built.CustomerID()); err != nil {
			return CreateOrderResult{}, fmt.Errorf("redeem voucher %q: %w", *report.AppliedVoucherCode, err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	result := CreateOrderResult{
		OrderID:     built.ID(),
		OrderNumber: built.OrderNumber(),
		TotalAmount: built.TotalAmount(),
		Status:      built.Status(),
		Warnings:    report.Warnings,
		Message:     fmt.Sprintf("order %s created", built.OrderNumber()),
	}

	if err = h.publisher.PublishAll(ctx, built.PopEvents()); err != nil {
		return result, err
	}

	return result, nil
}
