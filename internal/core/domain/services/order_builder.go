// Package services contains domain services that coordinate multiple
// aggregates and collaborator ports without belonging to any single model
// package.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services/pricing"
	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderBuilderIsNotConstructed is returned when an OrderBuilder was
	// not created via the NewOrderBuilder constructor.
	ErrOrderBuilderIsNotConstructed = errors.New("OrderBuilder must be created via NewOrderBuilder constructor")

	// ErrCannotBuild is returned when Build is called while the accumulated
	// state fails validation. Callers should check CanBuild first or inspect
	// the wrapped validation messages.
	ErrCannotBuild = errors.New("cannot build")

	// ErrInsufficientStock is returned when a cart line asks for more units
	// than the catalog has available.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartItem is the transient builder input for one cart line. It is consumed
// once by Build and discarded; the persisted OrderLine snapshots product
// name and prices instead.
type CartItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// LineDiscount describes the discount applied to one built line, scaled to
// the line's full quantity.
type LineDiscount struct {
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	Type        string
	Description string
	Amount      decimal.Decimal
}

// BuildReport summarizes the pricing outcome of a successful Build for UI
// and reporting consumption. OriginalTotal is the goods total at catalog
// prices before any discount; TotalDiscount combines line-level discounts
// with the voucher discount.
type BuildReport struct {
	OrderNumber        string
	OriginalTotal      decimal.Decimal
	TotalDiscount      decimal.Decimal
	LineDiscounts      []LineDiscount
	Warnings           []string
	AppliedVoucherCode *string
	GiftWrap           bool
	ExpressDelivery    bool
}

// OrderBuilder is a staged accumulator that turns a cart into an immutable
// Pending order.
//
// Required steps: purchaser (by reference or id), at least one cart line,
// complete shipping details, and a recognized payment method. Optional
// steps: voucher code, notes, gift wrap, an explicit shipping-fee override,
// and express delivery.
//
// Business rules:
//   - Per-line prices come from the pricing resolver; the best single
//     strategy wins per line
//   - A voucher that fails lookup does not abort the build; the order
//     builds without it and the report carries a warning
//   - The shipping fee is the explicit override when set, otherwise the
//     rate collaborator's quote, plus the gift-wrap fee when requested
//   - Total amount is subtotal plus shipping fee minus voucher discount,
//     floored at zero
//
// A builder instance is single-use per build and not safe for concurrent
// steps; Reset clears the accumulated state for reuse.
type OrderBuilder struct {
	products  ports.ProductRepository
	customers ports.CustomerRepository
	vouchers  ports.VoucherService
	shipping  ports.ShippingCalculator
	resolver  *pricing.Resolver

	purchaser   *customer.Customer
	purchaserID kernel.UUID

	items []CartItem

	shippingAddress string
	shippingPhone   string
	receiverName    string

	paymentMethod order.PaymentMethod

	voucherCode string
	notes       string

	giftWrap        bool
	giftWrapMessage string
	giftWrapFee     decimal.Decimal

	shippingFeeOverride *decimal.Decimal
	expressDelivery     bool

	isConstructed bool
}

// NewOrderBuilder creates an OrderBuilder over its collaborator ports. All
// collaborators are required.
func NewOrderBuilder(
	products ports.ProductRepository,
	customers ports.CustomerRepository,
	vouchers ports.VoucherService,
	shipping ports.ShippingCalculator,
	resolver *pricing.Resolver,
) (*OrderBuilder, error) {
	if products == nil || customers == nil || vouchers == nil || shipping == nil || resolver == nil {
		return nil, errors.New("all order builder collaborators are required")
	}
	return &OrderBuilder{
		products:  products,
		customers: customers,
		vouchers:  vouchers,
		shipping:  shipping,
		resolver:  resolver,

		isConstructed: true,
	}, nil
}

// Validate ensures the builder was created through the constructor.
func (b *OrderBuilder) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrOrderBuilderIsNotConstructed
	}
	return nil
}

// ForCustomer sets the purchaser by reference.
func (b *OrderBuilder) ForCustomer(c *customer.Customer) *OrderBuilder {
	b.purchaser = c
	return b
}

// ForCustomerID sets the purchaser by id; Build resolves the full customer
// through the customer repository.
func (b *OrderBuilder) ForCustomerID(id kernel.UUID) *OrderBuilder {
	b.purchaserID = id
	return b
}

// AddItem appends one cart line.
func (b *OrderBuilder) AddItem(productID kernel.UUID, quantity int) *OrderBuilder {
	b.items = append(b.items, CartItem{ProductID: productID, Quantity: quantity})
	return b
}

// WithItems appends a batch of cart lines, keeping cart order.
func (b *OrderBuilder) WithItems(items []CartItem) *OrderBuilder {
	b.items = append(b.items, items...)
	return b
}

// WithShippingInfo sets the delivery address, phone, and receiver name.
func (b *OrderBuilder) WithShippingInfo(address, phone, receiverName string) *OrderBuilder {
	b.shippingAddress = address
	b.shippingPhone = phone
	b.receiverName = receiverName
	return b
}

// WithPaymentMethod sets the payment method.
func (b *OrderBuilder) WithPaymentMethod(method order.PaymentMethod) *OrderBuilder {
	b.paymentMethod = method
	return b
}

// WithVoucher sets the voucher code to attempt during Build.
func (b *OrderBuilder) WithVoucher(code string) *OrderBuilder {
	b.voucherCode = code
	return b
}

// WithNotes sets the purchaser's free-form notes.
func (b *OrderBuilder) WithNotes(notes string) *OrderBuilder {
	b.notes = notes
	return b
}

// WithGiftWrap requests gift wrapping with the given message and fee. The
// fee is added on top of the shipping fee.
func (b *OrderBuilder) WithGiftWrap(message string, fee decimal.Decimal) *OrderBuilder {
	b.giftWrap = true
	b.giftWrapMessage = message
	b.giftWrapFee = fee
	return b
}

// WithShippingFee sets an explicit shipping fee, bypassing the rate
// collaborator.
func (b *OrderBuilder) WithShippingFee(fee decimal.Decimal) *OrderBuilder {
	b.shippingFeeOverride = &fee
	return b
}

// WithExpressDelivery requests expedited shipping.
func (b *OrderBuilder) WithExpressDelivery() *OrderBuilder {
	b.expressDelivery = true
	return b
}

// Reset clears the accumulated order state for reuse. Collaborators are
// kept.
func (b *OrderBuilder) Reset() {
	b.purchaser = nil
	b.purchaserID = kernel.UUID{}
	b.items = nil
	b.shippingAddress = ""
	b.shippingPhone = ""
	b.receiverName = ""
	b.paymentMethod = order.PaymentMethodUnknown
	b.voucherCode = ""
	b.notes = ""
	b.giftWrap = false
	b.giftWrapMessage = ""
	b.giftWrapFee = decimal.Zero
	b.shippingFeeOverride = nil
	b.expressDelivery = false
}

// ValidationErrors returns the messages the current state would fail Build
// with. The check is non-destructive and makes no collaborator calls, so a
// voucher code is not verified here; voucher problems surface as Build
// warnings instead.
func (b *OrderBuilder) ValidationErrors() []string {
	var validationErrors []string

	if b.purchaser == nil && b.purchaserID.Validate() != nil {
		validationErrors = append(validationErrors, "missing purchaser")
	}

	if len(b.items) == 0 {
		validationErrors = append(validationErrors, "no items")
	}
	for _, item := range b.items {
		if item.Quantity < 1 {
			validationErrors = append(validationErrors, "no items")
			break
		}
	}

	if b.shippingAddress == "" || b.shippingPhone == "" || b.receiverName == "" {
		validationErrors = append(validationErrors, "incomplete shipping info")
	}

	if b.paymentMethod.Validate() != nil {
		validationErrors = append(validationErrors, "unrecognized payment method")
	}

	return validationErrors
}

// CanBuild reports whether Build would pass validation.
func (b *OrderBuilder) CanBuild() bool {
	return len(b.ValidationErrors()) == 0
}

// Build assembles the order: resolves the purchaser and each product,
// prices every line through the resolver, applies the voucher when it
// resolves, computes the shipping fee, and yields an immutable Pending
// order with its build report.
func (b *OrderBuilder) Build(ctx context.Context) (*order.Order, BuildReport, error) {
	if err := b.Validate(); err != nil {
		return nil, BuildReport{}, err
	}

	if validationErrors := b.ValidationErrors(); len(validationErrors) > 0 {
		return nil, BuildReport{}, fmt.Errorf("%w: %s", ErrCannotBuild, strings.Join(validationErrors, "; "))
	}

	purchaser, err := b.resolvePurchaser(ctx)
	if err != nil {
		return nil, BuildReport{}, err
	}

	lines, lineDiscounts, totalWeightGrams, err := b.buildLines(ctx, purchaser)
	if err != nil {
		return nil, BuildReport{}, err
	}

	var (
		subTotal          = decimal.Zero
		originalTotal     = decimal.Zero
		lineDiscountTotal = decimal.Zero
	)
	for _, line := range lines {
		subTotal = subTotal.Add(line.Subtotal())
		originalTotal = originalTotal.Add(line.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity()))))
		lineDiscountTotal = lineDiscountTotal.Add(line.DiscountAmount())
	}

	report := BuildReport{
		OriginalTotal:   originalTotal,
		LineDiscounts:   lineDiscounts,
		GiftWrap:        b.giftWrap,
		ExpressDelivery: b.expressDelivery,
	}

	voucherDiscount := decimal.Zero
	var voucherCode *string
	if b.voucherCode != "" {
		v, lookupErr := b.vouchers.Lookup(ctx, b.voucherCode, purchaser.ID())
		if lookupErr != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("voucher %q not applied: %v", b.voucherCode, lookupErr))
		} else {
			voucherDiscount = v.DiscountFor(subTotal)
			code := v.Code()
			voucherCode = &code
			report.AppliedVoucherCode = voucherCode
		}
	}

	shippingFee, err := b.shippingFee(ctx, totalWeightGrams)
	if err != nil {
		return nil, BuildReport{}, err
	}

	totalAmount := subTotal.Add(shippingFee).Sub(voucherDiscount)
	if totalAmount.IsNegative() {
		totalAmount = decimal.Zero
	}

	orderID := kernel.NewUUID()
	orderNumber := newOrderNumber(orderID, time.Now().UTC())

	built, err := order.NewOrder(order.NewOrderParams{
		ID:          orderID,
		OrderNumber: orderNumber,
		CustomerID:  purchaser.ID(),

		Lines: lines,

		ShippingAddress: b.shippingAddress,
		ShippingPhone:   b.shippingPhone,
		ReceiverName:    b.receiverName,

		PaymentMethod: b.paymentMethod,

		SubTotal:      subTotal,
		ShippingFee:   shippingFee,
		TotalDiscount: voucherDiscount,
		TotalAmount:   totalAmount,

		VoucherCode: voucherCode,

		GiftWrap:        b.giftWrap,
		GiftWrapMessage: b.giftWrapMessage,
		GiftWrapFee:     b.giftWrapFee,

		ExpressDelivery: b.expressDelivery,

		Notes: b.notes,
	})
	if err != nil {
		return nil, BuildReport{}, err
	}

	report.OrderNumber = orderNumber
	report.TotalDiscount = lineDiscountTotal.Add(voucherDiscount)

	return built, report, nil
}

func (b *OrderBuilder) resolvePurchaser(ctx context.Context) (*customer.Customer, error) {
	if b.purchaser != nil {
		return b.purchaser, nil
	}
	return b.customers.Get(ctx, b.purchaserID)
}

func (b *OrderBuilder) buildLines(ctx context.Context, purchaser *customer.Customer) (
	[]order.OrderLine, []LineDiscount, int, error,
) {
	lines := make([]order.OrderLine, 0, len(b.items))
	var lineDiscounts []LineDiscount
	totalWeightGrams := 0

	for _, item := range b.items {
		p, err := b.products.Get(ctx, item.ProductID)
		if err != nil {
			return nil, nil, 0, err
		}

		if !p.IsInStock(item.Quantity) {
			return nil, nil, 0, fmt.Errorf("%w: product %s has %d left, %d requested",
				ErrInsufficientStock, p.Name(), p.StockQuantity(), item.Quantity)
		}

		quote, err := b.resolver.Resolve(p, purchaser)
		if err != nil {
			return nil, nil, 0, err
		}

		discountDescription := ""
		if len(quote.Details) > 0 {
			discountDescription = quote.Details[0].Description
		}

		line, err := order.NewOrderLine(
			p.ID(), p.Name(), item.Quantity,
			quote.UnitPrice, quote.DiscountedUnitPrice, discountDescription,
		)
		if err != nil {
			return nil, nil, 0, err
		}

		lines = append(lines, line)
		totalWeightGrams += p.WeightGrams() * item.Quantity

		if len(quote.Details) > 0 {
			lineDiscounts = append(lineDiscounts, LineDiscount{
				ProductID:   p.ID(),
				ProductName: p.Name(),
				Quantity:    item.Quantity,
				Type:        quote.Details[0].Type,
				Description: quote.Details[0].Description,
				Amount:      line.DiscountAmount(),
			})
		}
	}

	return lines, lineDiscounts, totalWeightGrams, nil
}

func (b *OrderBuilder) shippingFee(ctx context.Context, totalWeightGrams int) (decimal.Decimal, error) {
	fee := decimal.Zero
	if b.shippingFeeOverride != nil {
		fee = *b.shippingFeeOverride
	} else {
		quoted, err := b.shipping.Calculate(ctx, ports.ShippingQuoteRequest{
			Address:          b.shippingAddress,
			TotalWeightGrams: totalWeightGrams,
			ExpressDelivery:  b.expressDelivery,
		})
		if err != nil {
			return decimal.Zero, err
		}
		fee = quoted
	}

	if b.giftWrap {
		fee = fee.Add(b.giftWrapFee)
	}
	return fee, nil
}

// newOrderNumber derives a human-readable order number from the order id
// and creation date, e.g. ORD-20260901-1A2B3C4D.
func newOrderNumber(id kernel.UUID, at time.Time) string {
	compact := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), strings.ToUpper(compact[:8]))
}
