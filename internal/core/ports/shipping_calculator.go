package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ShippingQuoteRequest carries the inputs of a shipping-rate calculation.
type ShippingQuoteRequest struct {
	Address          string
	TotalWeightGrams int
	ExpressDelivery  bool
}

// ShippingCalculator defines the collaborator contract for computing the
// shipping fee of an order. The calculation is deterministic for a given
// request; latency and failures are the collaborator's domain.
type ShippingCalculator interface {
	Calculate(ctx context.Context, req ShippingQuoteRequest) (decimal.Decimal, error)
}
