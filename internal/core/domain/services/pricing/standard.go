package pricing

import (
	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/product"

	"github.com/shopspring/decimal"
)

// StandardStrategy is the baseline pricing policy: no discount for anyone.
// It exists so a resolver always has at least one eligible strategy and the
// "no discount" case needs no special handling.
type StandardStrategy struct{}

// NewStandardStrategy creates the baseline no-discount strategy.
func NewStandardStrategy() StandardStrategy {
	return StandardStrategy{}
}

// Name implements Strategy.
func (StandardStrategy) Name() string {
	return "standard"
}

// DiscountPercent implements Strategy. Always zero.
func (StandardStrategy) DiscountPercent(_ *product.Product, _ *customer.Customer) decimal.Decimal {
	return decimal.Zero
}

// Describe implements Strategy.
func (StandardStrategy) Describe(_ *product.Product, _ *customer.Customer) string {
	return "Standard price"
}
