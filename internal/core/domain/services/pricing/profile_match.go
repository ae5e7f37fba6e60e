package pricing

import (
	"fmt"

	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ProfileMatchStrategy grants a configured discount percent when the
// purchaser has completed the skin-profile quiz and the product's target
// profile matches the purchaser's. Guest purchasers are never eligible.
type ProfileMatchStrategy struct {
	percent decimal.Decimal
}

// DefaultProfileMatchPercent is the stock profile-match discount of 5%.
func DefaultProfileMatchPercent() decimal.Decimal {
	return decimal.NewFromFloat(0.05)
}

// NewProfileMatchStrategy creates a profile-match strategy with the given
// percent, which must lie in [0, 1].
func NewProfileMatchStrategy(percent decimal.Decimal) (*ProfileMatchStrategy, error) {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(1)) {
		return nil, errs.NewValueIsOutOfRangeError("profile match percent", percent.String(), 0, 1)
	}
	return &ProfileMatchStrategy{percent: percent}, nil
}

// Name implements Strategy.
func (*ProfileMatchStrategy) Name() string {
	return "profile_match"
}

// DiscountPercent implements Strategy. Eligibility requires a non-guest
// purchaser with a completed quiz whose profile equals the product's target
// profile.
func (s *ProfileMatchStrategy) DiscountPercent(p *product.Product, c *customer.Customer) decimal.Decimal {
	if c == nil || !c.HasCompletedSkinQuiz() {
		return decimal.Zero
	}
	if p.TargetSkinProfile() == customer.SkinProfileUnknown || p.TargetSkinProfile() != c.SkinProfile() {
		return decimal.Zero
	}
	return s.percent
}

// Describe implements Strategy.
func (s *ProfileMatchStrategy) Describe(p *product.Product, _ *customer.Customer) string {
	return fmt.Sprintf("Skin profile match for %s skin (%s%%)",
		p.TargetSkinProfile(), s.percent.Mul(decimal.NewFromInt(100)).String())
}
