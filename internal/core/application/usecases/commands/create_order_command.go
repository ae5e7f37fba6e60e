package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrNoItems                = errors.New("at least one item with quantity >= 1 is required")
	ErrShippingInfoIsRequired = errors.New("shipping address, phone, and receiver name are required")
)

// CreateOrderItem is one requested cart line inside a CreateOrderCommand.
type CreateOrderItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateOrderCommand represents a request to build a new order from a cart.
// Carries the purchaser, cart lines, shipping details, payment method, and
// the optional modifiers (voucher code, notes, gift wrap, express delivery).
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	items      []CreateOrderItem

	shippingAddress string
	shippingPhone   string
	receiverName    string

	paymentMethod order.PaymentMethod

	voucherCode string
	notes       string

	giftWrap        bool
	giftWrapMessage string
	giftWrapFee     decimal.Decimal

	expressDelivery bool

	guard guard.ConstructorGuard
}

// CreateOrderParams carries the optional parts of a CreateOrderCommand.
type CreateOrderParams struct {
	VoucherCode string
	Notes       string

	GiftWrap        bool
	GiftWrapMessage string
	GiftWrapFee     decimal.Decimal

	ExpressDelivery bool
}

// NewCreateOrderCommand creates a command to build a new order.
// Validates the purchaser id, that at least one item with positive quantity
// is present, that shipping details are complete, and that the payment
// method is recognized.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	items []CreateOrderItem,
	shippingAddress, shippingPhone, receiverName string,
	paymentMethod order.PaymentMethod,
	params CreateOrderParams,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setItems(items),
		cmd.setShippingInfo(shippingAddress, shippingPhone, receiverName),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.voucherCode = params.VoucherCode
	cmd.notes = params.Notes
	cmd.giftWrap = params.GiftWrap
	cmd.giftWrapMessage = params.GiftWrapMessage
	cmd.giftWrapFee = params.GiftWrapFee
	cmd.expressDelivery = params.ExpressDelivery

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the purchaser's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Items returns the requested cart lines in cart order.
func (c CreateOrderCommand) Items() []CreateOrderItem {
	items := make([]CreateOrderItem, len(c.items))
	copy(items, c.items)
	return items
}

// ShippingAddress returns the delivery address.
func (c CreateOrderCommand) ShippingAddress() string {
	return c.shippingAddress
}

// ShippingPhone returns the receiver's phone number.
func (c CreateOrderCommand) ShippingPhone() string {
	return c.shippingPhone
}

// ReceiverName returns the receiver's name.
func (c CreateOrderCommand) ReceiverName() string {
	return c.receiverName
}

// PaymentMethod returns the chosen payment method.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// VoucherCode returns the voucher code to attempt, empty when none.
func (c CreateOrderCommand) VoucherCode() string {
	return c.voucherCode
}

// Notes returns the purchaser's free-form notes.
func (c CreateOrderCommand) Notes() string {
	return c.notes
}

// IsGiftWrap reports whether gift wrapping was requested.
func (c CreateOrderCommand) IsGiftWrap() bool {
	return c.giftWrap
}

// GiftWrapMessage returns the gift message.
func (c CreateOrderCommand) GiftWrapMessage() string {
	return c.giftWrapMessage
}

// GiftWrapFee returns the gift-wrap fee.
func (c CreateOrderCommand) GiftWrapFee() decimal.Decimal {
	return c.giftWrapFee
}

// IsExpressDelivery reports whether expedited shipping was requested.
func (c CreateOrderCommand) IsExpressDelivery() bool {
	return c.expressDelivery
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []CreateOrderItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return err
		}
		if item.Quantity < 1 {
			return ErrNoItems
		}
	}

	c.items = make([]CreateOrderItem, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setShippingInfo(address, phone, receiverName string) error {
	if address == "" || phone == "" || receiverName == "" {
		return ErrShippingInfoIsRequired
	}

	c.shippingAddress = address
	c.shippingPhone = phone
	c.receiverName = receiverName
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
