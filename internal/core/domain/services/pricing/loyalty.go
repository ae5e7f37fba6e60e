package pricing

import (
	"fmt"

	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LoyaltyStrategy grants a fixed discount percent keyed by the purchaser's
// loyalty tier. The tier-to-percent mapping is configuration supplied at
// construction, not hard-coded business law. Guests and customers at
// TierNone receive no discount.
type LoyaltyStrategy struct {
	percentByTier map[customer.Tier]decimal.Decimal
}

// DefaultLoyaltyPercents returns the stock tier mapping:
// Bronze 5%, Silver 10%, Gold 15%, Platinum 20%.
func DefaultLoyaltyPercents() map[customer.Tier]decimal.Decimal {
	return map[customer.Tier]decimal.Decimal{
		customer.Bronze:   decimal.NewFromFloat(0.05),
		customer.Silver:   decimal.NewFromFloat(0.10),
		customer.Gold:     decimal.NewFromFloat(0.15),
		customer.Platinum: decimal.NewFromFloat(0.20),
	}
}

// NewLoyaltyStrategy creates a loyalty strategy from a tier-to-percent
// mapping. Every configured percent must lie in [0, 1].
func NewLoyaltyStrategy(percentByTier map[customer.Tier]decimal.Decimal) (*LoyaltyStrategy, error) {
	for tier, percent := range percentByTier {
		if err := tier.Validate(); err != nil {
			return nil, err
		}
		if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(1)) {
			return nil, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("loyalty percent for tier %s", tier), percent.String(), 0, 1)
		}
	}

	copied := make(map[customer.Tier]decimal.Decimal, len(percentByTier))
	for tier, percent := range percentByTier {
		copied[tier] = percent
	}

	return &LoyaltyStrategy{percentByTier: copied}, nil
}

// Name implements Strategy.
func (*LoyaltyStrategy) Name() string {
	return "loyalty"
}

// DiscountPercent implements Strategy. Guest purchasers always get zero.
func (s *LoyaltyStrategy) DiscountPercent(_ *product.Product, c *customer.Customer) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	percent, ok := s.percentByTier[c.Tier()]
	if !ok {
		return decimal.Zero
	}
	return percent
}

// Describe implements Strategy.
func (s *LoyaltyStrategy) Describe(p *product.Product, c *customer.Customer) string {
	percent := s.DiscountPercent(p, c)
	return fmt.Sprintf("%s member discount (%s%%)", c.Tier(), percent.Mul(decimal.NewFromInt(100)).String())
}
