package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrNoOrderLines is returned when an order has no purchasable lines.
	ErrNoOrderLines = errors.New("order must have at least one line")

	// ErrShippingInfoIsIncomplete is returned when the shipping address,
	// phone, or receiver name is missing.
	ErrShippingInfoIsIncomplete = errors.New("shipping address, phone, and receiver name are required")

	// ErrCancellationReasonIsRequired is returned when Cancel is called
	// without a reason.
	ErrCancellationReasonIsRequired = errors.New("cancellation reason is required")
)

// PaymentResult is the opaque outcome of a payment attempt performed by the
// payment-gateway collaborator. The core records it without interpreting
// gateway specifics.
type PaymentResult struct {
	Success       bool
	TransactionID string
	PaymentURL    string
	QRCode        string
	FailureReason string
	ExpiresAt     *time.Time
}

// Order is the aggregate root for a purchaser's finalized, priced set of
// product lines with shipping and payment metadata and a lifecycle status.
//
// Invariants:
//   - Valid identity, owning customer, and at least one line
//   - Complete shipping details and a recognized payment method
//   - TotalAmount == SubTotal + ShippingFee - TotalDiscount, never negative
//   - Status and timestamps stay mutually consistent: a Cancelled order has a
//     cancellation timestamp and reason; an order that never reached Paid has
//     no payment transaction id
//
// Orders are created by the order builder, mutated only through the
// lifecycle transition methods, and never deleted.
type Order struct {
	id          kernel.UUID
	orderNumber string
	customerID  kernel.UUID

	// lines keep cart insertion order
	lines []OrderLine

	shippingAddress string
	shippingPhone   string
	receiverName    string

	paymentMethod PaymentMethod
	status        Status

	subTotal      decimal.Decimal
	shippingFee   decimal.Decimal
	totalDiscount decimal.Decimal
	totalAmount   decimal.Decimal

	voucherCode *string

	giftWrap        bool
	giftWrapMessage string
	giftWrapFee     decimal.Decimal

	expressDelivery bool

	notes      string
	adminNotes string

	cancellationReason string
	requiresRefund     bool
	refundAmount       decimal.Decimal

	transactionID string

	estimatedDeliveryDate *time.Time

	createdAt   time.Time
	confirmedAt *time.Time
	paidAt      *time.Time
	cancelledAt *time.Time

	pendingEvents []DomainEvent

	isConstructed bool
}

// NewOrderParams carries the validated output of the order builder into the
// aggregate constructor.
type NewOrderParams struct {
	ID          kernel.UUID
	OrderNumber string
	CustomerID  kernel.UUID

	Lines []OrderLine

	ShippingAddress string
	ShippingPhone   string
	ReceiverName    string

	PaymentMethod PaymentMethod

	SubTotal      decimal.Decimal
	ShippingFee   decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalAmount   decimal.Decimal

	VoucherCode *string

	GiftWrap        bool
	GiftWrapMessage string
	GiftWrapFee     decimal.Decimal

	ExpressDelivery bool

	Notes string
}

// NewOrder creates a new Order in Pending status with validation and records
// the corresponding CreatedEvent. This is the only way (besides
// RestoreOrder) to obtain a valid Order; the order builder is its sole
// intended caller.
func NewOrder(params NewOrderParams) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
		createdAt:     time.Now().UTC(),
	}

	if err := errors.Join(
		o.setID(params.ID),
		o.setOrderNumber(params.OrderNumber),
		o.setCustomerID(params.CustomerID),
		o.setLines(params.Lines),
		o.setShippingInfo(params.ShippingAddress, params.ShippingPhone, params.ReceiverName),
		o.setPaymentMethod(params.PaymentMethod),
		o.setTotals(params.SubTotal, params.ShippingFee, params.TotalDiscount, params.TotalAmount),
	); err != nil {
		return nil, err
	}

	o.voucherCode = params.VoucherCode
	o.giftWrap = params.GiftWrap
	o.giftWrapMessage = params.GiftWrapMessage
	o.giftWrapFee = params.GiftWrapFee
	o.expressDelivery = params.ExpressDelivery
	o.notes = params.Notes

	o.record(CreatedEvent{
		BaseEvent:   newBaseEvent(OrderCreatedKind, o.id, o.createdAt),
		CustomerID:  o.customerID,
		OrderNumber: o.orderNumber,
		TotalAmount: o.totalAmount,
	})

	return o, nil
}

// RestoreOrderParams carries a persisted order's full state back into the
// aggregate. Used exclusively by repository implementations.
type RestoreOrderParams struct {
	NewOrderParams

	Status Status

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

// RestoreOrder reconstructs an Order from persistence, verifying that the
// stored status and timestamps are mutually consistent. No events are
// recorded.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	o, err := NewOrder(params.NewOrderParams)
	if err != nil {
		return nil, err
	}
	o.pendingEvents = nil

	if err = params.Status.Validate(); err != nil {
		return nil, err
	}

	o.status = params.Status
	o.adminNotes = params.AdminNotes
	o.cancellationReason = params.CancellationReason
	o.requiresRefund = params.RequiresRefund
	o.refundAmount = params.RefundAmount
	o.transactionID = params.TransactionID
	o.estimatedDeliveryDate = params.EstimatedDeliveryDate
	o.createdAt = params.CreatedAt
	o.confirmedAt = params.ConfirmedAt
	o.paidAt = params.PaidAt
	o.cancelledAt = params.CancelledAt

	if err = o.validateStateConsistency(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through one
// of the factory methods.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// OrderNumber returns the human-readable order number.
func (o *Order) OrderNumber() string { return o.orderNumber }

// CustomerID returns the owning purchaser's identifier.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Lines returns the order's lines in cart insertion order.
// The returned slice is a copy; lines themselves are immutable.
func (o *Order) Lines() []OrderLine {
	lines := make([]OrderLine, len(o.lines))
	copy(lines, o.lines)
	return lines
}

// ShippingAddress returns the delivery address.
func (o *Order) ShippingAddress() string { return o.shippingAddress }

// ShippingPhone returns the receiver's phone number.
func (o *Order) ShippingPhone() string { return o.shippingPhone }

// ReceiverName returns the receiver's name.
func (o *Order) ReceiverName() string { return o.receiverName }

// PaymentMethod returns the chosen payment method.
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// SubTotal returns the sum of discounted line subtotals.
func (o *Order) SubTotal() decimal.Decimal { return o.subTotal }

// ShippingFee returns the shipping fee, including any gift-wrap fee.
func (o *Order) ShippingFee() decimal.Decimal { return o.shippingFee }

// TotalDiscount returns the order-level discount (voucher) amount.
// Line-level discounts are already embedded in SubTotal.
func (o *Order) TotalDiscount() decimal.Decimal { return o.totalDiscount }

// TotalAmount returns SubTotal + ShippingFee - TotalDiscount, never
// negative.
func (o *Order) TotalAmount() decimal.Decimal { return o.totalAmount }

// VoucherCode returns the applied voucher code, or nil when none applied.
func (o *Order) VoucherCode() *string { return o.voucherCode }

// IsGiftWrapped reports whether gift wrapping was requested.
func (o *Order) IsGiftWrapped() bool { return o.giftWrap }

// GiftWrapMessage returns the gift message, empty when not gift wrapped.
func (o *Order) GiftWrapMessage() string { return o.giftWrapMessage }

// GiftWrapFee returns the gift-wrap fee included in the shipping fee.
func (o *Order) GiftWrapFee() decimal.Decimal { return o.giftWrapFee }

// IsExpressDelivery reports whether expedited shipping was requested.
func (o *Order) IsExpressDelivery() bool { return o.expressDelivery }

// Notes returns the purchaser's free-form notes.
func (o *Order) Notes() string { return o.notes }

// AdminNotes returns notes recorded by the confirming operator.
func (o *Order) AdminNotes() string { return o.adminNotes }

// CancellationReason returns the reason recorded at cancellation.
func (o *Order) CancellationReason() string { return o.cancellationReason }

// RequiresRefund reports whether cancelling this order left a refund owed.
func (o *Order) RequiresRefund() bool { return o.requiresRefund }

// RefundAmount returns the amount owed when RequiresRefund is true.
func (o *Order) RefundAmount() decimal.Decimal { return o.refundAmount }

// TransactionID returns the payment transaction id, empty until Paid.
func (o *Order) TransactionID() string { return o.transactionID }

// EstimatedDeliveryDate returns the delivery estimate set at confirmation.
func (o *Order) EstimatedDeliveryDate() *time.Time { return o.estimatedDeliveryDate }

// CreatedAt returns when the order was built.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// ConfirmedAt returns when the order was confirmed, nil before that.
func (o *Order) ConfirmedAt() *time.Time { return o.confirmedAt }

// PaidAt returns when payment succeeded, nil before that.
func (o *Order) PaidAt() *time.Time { return o.paidAt }

// CancelledAt returns when the order was cancelled, nil unless cancelled.
func (o *Order) CancelledAt() *time.Time { return o.cancelledAt }

// PopEvents returns the events recorded by transitions since the last call
// and clears the pending list. Command handlers publish them after the
// aggregate has been persisted.
func (o *Order) PopEvents() []DomainEvent {
	events := o.pendingEvents
	o.pendingEvents = nil
	return events
}

// Confirm transitions a Pending order to Confirmed.
//
// Business rules:
//   - The order must be Pending and have at least one line
//   - Stock availability is the caller's responsibility (checked against the
//     product collaborator before calling)
//   - An optional shipping-fee override replaces the fee computed at build
//     time and recomputes the total amount
//
// On success the confirmation timestamp is set and a ConfirmedEvent is
// recorded.
func (o *Order) Confirm(shippingFeeOverride *decimal.Decimal, estimatedDeliveryDate *time.Time, adminNotes string) error {
	if len(o.lines) == 0 {
		return ErrNoOrderLines
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	if shippingFeeOverride != nil {
		if shippingFeeOverride.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause("shipping fee is invalid",
				fmt.Errorf("%s is negative", shippingFeeOverride.String()))
		}
		o.shippingFee = *shippingFeeOverride
		o.totalAmount = flooredTotal(o.subTotal, o.shippingFee, o.totalDiscount)
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.confirmedAt = &now
	o.estimatedDeliveryDate = estimatedDeliveryDate
	o.adminNotes = adminNotes

	o.record(ConfirmedEvent{
		BaseEvent:             newBaseEvent(OrderConfirmedKind, o.id, now),
		OrderNumber:           o.orderNumber,
		ShippingFee:           o.shippingFee,
		TotalAmount:           o.totalAmount,
		EstimatedDeliveryDate: estimatedDeliveryDate,
	})

	return nil
}

// Pay records the outcome of a payment attempt.
//
// The order must be Confirmed or PaymentFailed (retry). A successful result
// moves the order to Paid, stores the transaction id, and sets the payment
// timestamp; a failed result moves it to PaymentFailed and mutates no
// amounts. Each outcome records its corresponding event.
func (o *Order) Pay(result PaymentResult) error {
	newStatus, err := o.status.Pay(result.Success)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus

	if result.Success {
		o.transactionID = result.TransactionID
		o.paidAt = &now
		o.record(PaidEvent{
			BaseEvent:     newBaseEvent(OrderPaidKind, o.id, now),
			OrderNumber:   o.orderNumber,
			TransactionID: result.TransactionID,
			Amount:        o.totalAmount,
			PaymentMethod: o.paymentMethod,
		})
		return nil
	}

	o.record(PaymentFailedEvent{
		BaseEvent:   newBaseEvent(OrderPaymentFailedKind, o.id, now),
		OrderNumber: o.orderNumber,
		Reason:      result.FailureReason,
	})

	return nil
}

// Cancel transitions the order to Cancelled.
//
// Business rules:
//   - The reason must be non-empty
//   - Any non-terminal order can be cancelled
//   - Cancelling an order whose payment was already captured flags
//     RequiresRefund with RefundAmount equal to the total; issuing the
//     refund is the refund collaborator's job
//
// On success the cancellation timestamp is set and a CancelledEvent is
// recorded.
func (o *Order) Cancel(reason string) error {
	if reason == "" {
		return ErrCancellationReasonIsRequired
	}

	wasPaid := o.status.IsPaidOrLater()

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.cancellationReason = reason
	o.cancelledAt = &now

	if wasPaid {
		o.requiresRefund = true
		o.refundAmount = o.totalAmount
	}

	o.record(CancelledEvent{
		BaseEvent:      newBaseEvent(OrderCancelledKind, o.id, now),
		OrderNumber:    o.orderNumber,
		Reason:         reason,
		RequiresRefund: o.requiresRefund,
		RefundAmount:   o.refundAmount,
	})

	return nil
}

func (o *Order) record(event DomainEvent) {
	o.pendingEvents = append(o.pendingEvents, event)
}

func flooredTotal(subTotal, shippingFee, totalDiscount decimal.Decimal) decimal.Decimal {
	total := subTotal.Add(shippingFee).Sub(totalDiscount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrNoOrderLines
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	o.lines = make([]OrderLine, len(lines))
	copy(o.lines, lines)
	return nil
}

func (o *Order) setShippingInfo(address, phone, receiverName string) error {
	if address == "" || phone == "" || receiverName == "" {
		return ErrShippingInfoIsIncomplete
	}
	o.shippingAddress = address
	o.shippingPhone = phone
	o.receiverName = receiverName
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setTotals(subTotal, shippingFee, totalDiscount, totalAmount decimal.Decimal) error {
	if subTotal.IsNegative() || shippingFee.IsNegative() || totalDiscount.IsNegative() || totalAmount.IsNegative() {
		return errs.NewValueIsInvalidError("order totals must not be negative")
	}
	if !totalAmount.Equal(flooredTotal(subTotal, shippingFee, totalDiscount)) {
		return errs.NewValueIsInvalidErrorWithCause("total amount is invalid",
			fmt.Errorf("%s does not equal subtotal %s + shipping %s - discount %s",
				totalAmount.String(), subTotal.String(), shippingFee.String(), totalDiscount.String()))
	}
	o.subTotal = subTotal
	o.shippingFee = shippingFee
	o.totalDiscount = totalDiscount
	o.totalAmount = totalAmount
	return nil
}

// validateStateConsistency enforces the status/timestamp invariant when
// restoring from persistence.
func (o *Order) validateStateConsistency() error {
	if o.status == Cancelled || o.status == Refunded {
		if o.cancelledAt == nil || o.cancellationReason == "" {
			return errs.NewValueIsInvalidError("cancelled order must have a cancellation timestamp and reason")
		}
	}
	if o.status.IsPaidOrLater() {
		if o.paidAt == nil || o.transactionID == "" {
			return errs.NewValueIsInvalidError("paid order must have a payment timestamp and transaction id")
		}
	} else if o.status != Cancelled && o.status != Refunded && o.transactionID != "" {
		return errs.NewValueIsInvalidError("order that was never paid must not have a transaction id")
	}
	if o.status != Pending && o.status != Cancelled && o.confirmedAt == nil {
		return errs.NewValueIsInvalidError("order past Pending must have a confirmation timestamp")
	}
	return nil
}
