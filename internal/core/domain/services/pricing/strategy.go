package pricing

import (
	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/product"

	"github.com/shopspring/decimal"
)

// Strategy is a pluggable discount-computation policy. Implementations are
// pure: they inspect the product and purchaser and return a discount percent
// in [0, 1] without side effects. A nil purchaser represents a guest.
type Strategy interface {
	// Name returns the strategy's stable type tag used in discount details.
	Name() string

	// DiscountPercent returns the discount fraction this strategy grants for
	// the given (product, purchaser) pair. Zero means not applicable.
	DiscountPercent(p *product.Product, c *customer.Customer) decimal.Decimal

	// Describe returns the human-readable description recorded when this
	// strategy wins the resolution for a line.
	Describe(p *product.Product, c *customer.Customer) string
}

// DiscountDetail is a transient record of one applied discount, aggregated
// into the build report. It is not persisted on the order beyond the
// rolled-up totals.
type DiscountDetail struct {
	Type        string
	Description string
	Amount      decimal.Decimal
	Percent     decimal.Decimal
}

// Quote is the result of resolving the price for one (product, purchaser)
// pair.
type Quote struct {
	UnitPrice           decimal.Decimal
	DiscountPercent     decimal.Decimal
	DiscountedUnitPrice decimal.Decimal

	// Details holds at most one entry: the winning strategy's detail with a
	// per-unit discount amount. Empty when no discount applies.
	Details []DiscountDetail
}
