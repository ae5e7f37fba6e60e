package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
)

// ErrPaymentMethodMismatch is returned when a pay command names a payment
// method different from the one the order was placed with.
var ErrPaymentMethodMismatch = errors.New("payment method does not match the order")

// PayOrderResult is the outcome of a payment attempt. IsSuccess mirrors the
// gateway's verdict; a declined charge is a successful command execution
// that left the order in PaymentFailed.
type PayOrderResult struct {
	IsSuccess     bool
	TransactionID string
	PaymentURL    string
	QRCode        string
	Amount        decimal.Decimal
	PaymentMethod order.PaymentMethod
	Message       string
	ExpiresAt     *time.Time
}

// PayOrderCommandHandler handles the business logic for order payment.
//
// Business rules:
//   - The order must be payable (Confirmed or PaymentFailed) before any
//     gateway call is made; an unpayable order never reaches the gateway
//   - Online methods charge through the gateway registered for the method
//   - Offline methods (cash on delivery, bank transfer) settle immediately
//     with a synthetic transaction reference
type PayOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	gateways   ports.PaymentGatewayRegistry
	publisher  ports.EventPublisher
}

// NewPayOrderCommandHandler creates a handler for order payment operations.
func NewPayOrderCommandHandler(
	uowFactory OrderUoWFactory,
	gateways ports.PaymentGatewayRegistry,
	publisher ports.EventPublisher,
) PayOrderCommandHandler {
	return PayOrderCommandHandler{
		uowFactory: uowFactory,
		gateways:   gateways,
		publisher:  publisher,
	}
}

// Handle processes the order payment command.
// A gateway transport failure aborts without touching the order; a gateway
// decline is recorded as a PaymentFailed transition and persisted.
func (h *PayOrderCommandHandler) Handle(ctx context.Context, cmd PayOrderCommand) (PayOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return PayOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PayOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return PayOrderResult{}, err
	}

	if err = aggregate.Status().ValidatePay(); err != nil {
		return PayOrderResult{}, err
	}

	if cmd.PaymentMethod() != aggregate.PaymentMethod() {
		return PayOrderResult{}, ErrPaymentMethodMismatch
	}

	paymentResult, err := h.charge(ctx, cmd, aggregate)
	if err != nil {
		return PayOrderResult{}, err
	}

	if err = aggregate.Pay(paymentResult); err != nil {
		return PayOrderResult{}, err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return PayOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PayOrderResult{}, err
	}

	result := PayOrderResult{
		IsSuccess:     paymentResult.Success,
		TransactionID: paymentResult.TransactionID,
		PaymentURL:    paymentResult.PaymentURL,
		QRCode:        paymentResult.QRCode,
		Amount:        aggregate.TotalAmount(),
		PaymentMethod: aggregate.PaymentMethod(),
		ExpiresAt:     paymentResult.ExpiresAt,
	}
	if paymentResult.Success {
		result.Message = fmt.Sprintf("order %s paid", aggregate.OrderNumber())
	} else {
		result.Message = fmt.Sprintf("payment for order %s failed: %s",
			aggregate.OrderNumber(), paymentResult.FailureReason)
	}

	if err = h.publisher.PublishAll(ctx, aggregate.PopEvents()); err != nil {
		return result, err
	}

	return result, nil
}

func (h *PayOrderCommandHandler) charge(
	ctx context.Context,
	cmd PayOrderCommand,
	aggregate *order.Order,
) (order.PaymentResult, error) {
	if !cmd.PaymentMethod().RequiresOnlinePayment() {
		return order.PaymentResult{
			Success:       true,
			TransactionID: offlineTransactionID(cmd.PaymentMethod(), aggregate.OrderNumber()),
		}, nil
	}

	gateway, err := h.gateways.GatewayFor(cmd.PaymentMethod())
	if err != nil {
		return order.PaymentResult{}, err
	}

	return gateway.Charge(ctx, ports.PaymentChargeRequest{
		OrderID:     aggregate.ID().String(),
		OrderNumber: aggregate.OrderNumber(),
		Amount:      aggregate.TotalAmount(),
		ReturnURL:   cmd.ReturnURL(),
		CancelURL:   cmd.CancelURL(),
		Metadata:    cmd.Metadata(),
	})
}

// offlineTransactionID derives the settlement reference recorded for
// methods that never touch an online gateway.
func offlineTransactionID(method order.PaymentMethod, orderNumber string) string {
	switch method {
	case order.CashOnDelivery:
		return "COD-" + orderNumber
	case order.BankTransfer:
		return "BANK-" + orderNumber
	default:
		return "OFFLINE-" + orderNumber
	}
}
