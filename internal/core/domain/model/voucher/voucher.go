// Package voucher contains the order-level voucher value object. Voucher
// lookup and redemption live behind a collaborator port; the domain type
// only knows how to compute the discount it grants.
package voucher

import (
	"errors"
	"time"

	"orderflow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrVoucherIsNotConstructed is returned when a Voucher was not created
	// via the NewVoucher constructor.
	ErrVoucherIsNotConstructed = errors.New("Voucher must be created via NewVoucher constructor")

	// ErrCodeIsRequired is returned when a voucher code is empty.
	ErrCodeIsRequired = errors.New("voucher code is required")

	// ErrDiscountIsNotPositive is returned when a voucher's discount amount
	// is zero or negative.
	ErrDiscountIsNotPositive = errors.New("voucher discount must be greater than 0")
)

// Voucher is an order-level, code-redeemable flat discount. It is
// independent of the per-line pricing strategies and applies on top of the
// line-level result.
type Voucher struct { //nolint:recvcheck //using for validation
	code           string
	discountAmount decimal.Decimal
	expiresAt      time.Time

	guard guard.ConstructorGuard
}

// NewVoucher creates a Voucher with validation. The discount amount must be
// positive; expiresAt bounds the voucher's validity.
func NewVoucher(code string, discountAmount decimal.Decimal, expiresAt time.Time) (Voucher, error) {
	v := Voucher{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setCode(code),
		v.setDiscountAmount(discountAmount),
	); err != nil {
		return Voucher{}, err
	}

	v.expiresAt = expiresAt
	return v, nil
}

// Validate ensures the voucher was created through the constructor.
func (v Voucher) Validate() error {
	return v.guard.Validate(ErrVoucherIsNotConstructed)
}

// Code returns the redeemable voucher code.
func (v Voucher) Code() string {
	return v.code
}

// DiscountAmount returns the flat discount the voucher grants.
func (v Voucher) DiscountAmount() decimal.Decimal {
	return v.discountAmount
}

// ExpiresAt returns the voucher's expiry instant.
func (v Voucher) ExpiresAt() time.Time {
	return v.expiresAt
}

// IsExpired reports whether the voucher has expired at the given instant.
func (v Voucher) IsExpired(now time.Time) bool {
	return !v.expiresAt.IsZero() && now.After(v.expiresAt)
}

// DiscountFor returns the discount applied against the given subtotal.
// The result never exceeds the subtotal, so applying a voucher can never
// push an order total negative.
func (v Voucher) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	if v.discountAmount.GreaterThan(subtotal) {
		return subtotal
	}
	return v.discountAmount
}

func (v *Voucher) setCode(code string) error {
	if code == "" {
		return ErrCodeIsRequired
	}
	v.code = code
	return nil
}

func (v *Voucher) setDiscountAmount(discountAmount decimal.Decimal) error {
	if !discountAmount.IsPositive() {
		return ErrDiscountIsNotPositive
	}
	v.discountAmount = discountAmount
	return nil
}
