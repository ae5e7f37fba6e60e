package pricing

import (
	"fmt"

	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// SaleStrategy grants a per-product configured promotional discount.
// Sale percents apply to everyone, guests included, because the promotion
// belongs to the product rather than the purchaser.
type SaleStrategy struct {
	percentByProduct map[kernel.UUID]decimal.Decimal
}

// NewSaleStrategy creates a sale strategy from a product-to-percent
// mapping. Construction fails when any percent lies outside [0, 1].
func NewSaleStrategy(percentByProduct map[kernel.UUID]decimal.Decimal) (*SaleStrategy, error) {
	for productID, percent := range percentByProduct {
		if err := productID.Validate(); err != nil {
			return nil, err
		}
		if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(1)) {
			return nil, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("sale percent for product %s", productID), percent.String(), 0, 1)
		}
	}

	copied := make(map[kernel.UUID]decimal.Decimal, len(percentByProduct))
	for productID, percent := range percentByProduct {
		copied[productID] = percent
	}

	return &SaleStrategy{percentByProduct: copied}, nil
}

// Name implements Strategy.
func (*SaleStrategy) Name() string {
	return "sale"
}

// DiscountPercent implements Strategy.
func (s *SaleStrategy) DiscountPercent(p *product.Product, _ *customer.Customer) decimal.Decimal {
	percent, ok := s.percentByProduct[p.ID()]
	if !ok {
		return decimal.Zero
	}
	return percent
}

// Describe implements Strategy.
func (s *SaleStrategy) Describe(p *product.Product, c *customer.Customer) string {
	percent := s.DiscountPercent(p, c)
	return fmt.Sprintf("Promotional sale (%s%%)", percent.Mul(decimal.NewFromInt(100)).String())
}
