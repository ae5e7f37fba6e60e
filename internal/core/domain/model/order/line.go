package order

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderLineIsNotConstructed is returned when an OrderLine was not
	// created via the NewOrderLine constructor.
	ErrOrderLineIsNotConstructed = errors.New("OrderLine must be created via NewOrderLine constructor")

	// ErrProductNameIsRequired is returned when a line's product name
	// snapshot is empty.
	ErrProductNameIsRequired = errors.New("product name is required")
)

// OrderLine is an immutable snapshot of one purchased product taken at
// order-build time. The product name and prices are copied so later catalog
// edits cannot change an existing order. A line is owned exclusively by its
// Order and never shared.
type OrderLine struct { //nolint:recvcheck //using for validation
	productID   kernel.UUID
	productName string
	quantity    int

	// unitPrice is the catalog price at build time; discountedUnitPrice is
	// what the purchaser actually pays per unit
	unitPrice           decimal.Decimal
	discountedUnitPrice decimal.Decimal
	discountDescription string

	guard guard.ConstructorGuard
}

// NewOrderLine creates a line snapshot with validation. Quantity must be at
// least 1 and the discounted unit price must not exceed the unit price or
// fall below zero.
func NewOrderLine(
	productID kernel.UUID,
	productName string,
	quantity int,
	unitPrice decimal.Decimal,
	discountedUnitPrice decimal.Decimal,
	discountDescription string,
) (OrderLine, error) {
	line := OrderLine{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		line.setProductID(productID),
		line.setProductName(productName),
		line.setQuantity(quantity),
		line.setPrices(unitPrice, discountedUnitPrice),
	); err != nil {
		return OrderLine{}, err
	}

	line.discountDescription = discountDescription
	return line, nil
}

// Validate ensures the line was created through the constructor.
func (l OrderLine) Validate() error {
	return l.guard.Validate(ErrOrderLineIsNotConstructed)
}

// ProductID returns the purchased product's identifier.
func (l OrderLine) ProductID() kernel.UUID {
	return l.productID
}

// ProductName returns the product name as it read at build time.
func (l OrderLine) ProductName() string {
	return l.productName
}

// Quantity returns the number of units purchased.
func (l OrderLine) Quantity() int {
	return l.quantity
}

// UnitPrice returns the catalog price per unit at build time.
func (l OrderLine) UnitPrice() decimal.Decimal {
	return l.unitPrice
}

// DiscountedUnitPrice returns the per-unit price after the line discount.
func (l OrderLine) DiscountedUnitPrice() decimal.Decimal {
	return l.discountedUnitPrice
}

// DiscountDescription returns the human-readable description of the
// discount applied to this line. Empty when no discount applied.
func (l OrderLine) DiscountDescription() string {
	return l.discountDescription
}

// Subtotal returns discounted unit price times quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.discountedUnitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
}

// DiscountAmount returns the total discount embedded in this line.
func (l OrderLine) DiscountAmount() decimal.Decimal {
	return l.unitPrice.Sub(l.discountedUnitPrice).Mul(decimal.NewFromInt(int64(l.quantity)))
}

func (l *OrderLine) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	l.productID = productID
	return nil
}

func (l *OrderLine) setProductName(productName string) error {
	if productName == "" {
		return ErrProductNameIsRequired
	}
	l.productName = productName
	return nil
}

func (l *OrderLine) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	l.quantity = quantity
	return nil
}

func (l *OrderLine) setPrices(unitPrice, discountedUnitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid",
			fmt.Errorf("%s is negative", unitPrice.String()))
	}
	if discountedUnitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("discounted unit price is invalid",
			fmt.Errorf("%s is negative", discountedUnitPrice.String()))
	}
	if discountedUnitPrice.GreaterThan(unitPrice) {
		return errs.NewValueIsInvalidErrorWithCause("discounted unit price is invalid",
			fmt.Errorf("%s exceeds unit price %s", discountedUnitPrice.String(), unitPrice.String()))
	}
	l.unitPrice = unitPrice
	l.discountedUnitPrice = discountedUnitPrice
	return nil
}
