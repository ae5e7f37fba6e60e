package pricing

import (
	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/product"

	"github.com/shopspring/decimal"
)

// Resolver composes the configured strategies into a single per-line
// pricing decision.
//
// Composition rule: the resolver selects the single largest applicable
// discount percent across all strategies and records only that strategy's
// detail. Strategies are never summed. When strategies tie, the first
// configured one wins, so the resolver is deterministic for a given
// strategy order.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a Resolver over the given strategies. The standard
// strategy is always included as the baseline, so a resolver constructed
// with no strategies still prices every line at the catalog price.
func NewResolver(strategies ...Strategy) *Resolver {
	combined := make([]Strategy, 0, len(strategies)+1)
	combined = append(combined, NewStandardStrategy())
	combined = append(combined, strategies...)
	return &Resolver{strategies: combined}
}

// Resolve computes the unit price for one (product, purchaser) pair.
// A nil purchaser represents a guest. The returned quote carries the
// catalog unit price, the winning discount percent, the discounted unit
// price, and the winning strategy's detail (absent when no discount
// applies).
func (r *Resolver) Resolve(p *product.Product, c *customer.Customer) (Quote, error) {
	if err := p.Validate(); err != nil {
		return Quote{}, err
	}

	var (
		best        Strategy
		bestPercent = decimal.Zero
	)

	for _, strategy := range r.strategies {
		percent := strategy.DiscountPercent(p, c)
		if percent.GreaterThan(bestPercent) {
			bestPercent = percent
			best = strategy
		}
	}

	unitPrice := p.UnitPrice()
	quote := Quote{
		UnitPrice:           unitPrice,
		DiscountPercent:     bestPercent,
		DiscountedUnitPrice: unitPrice,
	}

	if best == nil || bestPercent.IsZero() {
		return quote, nil
	}

	discountPerUnit := unitPrice.Mul(bestPercent).Round(2)
	quote.DiscountedUnitPrice = unitPrice.Sub(discountPerUnit)
	quote.Details = []DiscountDetail{{
		Type:        best.Name(),
		Description: best.Describe(p, c),
		Amount:      discountPerUnit,
		Percent:     bestPercent,
	}}

	return quote, nil
}
