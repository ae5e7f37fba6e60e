// Package shipping provides a deterministic weight-band shipping calculator.
// A carrier integration would replace this adapter behind the same port.
package shipping

import (
	"context"

	"orderflow/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Calculator computes shipping fees from a flat rate table: a base fee
// covering the first kilogram, a surcharge per started kilogram above it,
// and an express surcharge.
type Calculator struct {
	baseFee          decimal.Decimal
	perExtraKgFee    decimal.Decimal
	expressSurcharge decimal.Decimal
}

// NewCalculator creates a calculator with the given rate table.
func NewCalculator(baseFee, perExtraKgFee, expressSurcharge decimal.Decimal) *Calculator {
	return &Calculator{
		baseFee:          baseFee,
		perExtraKgFee:    perExtraKgFee,
		expressSurcharge: expressSurcharge,
	}
}

// NewDefaultCalculator creates a calculator with the store's standard rates.
func NewDefaultCalculator() *Calculator {
	return NewCalculator(
		decimal.NewFromInt(15000),
		decimal.NewFromInt(5000),
		decimal.NewFromInt(20000),
	)
}

// Calculate returns the fee for the request. The base fee covers up to
// 1000 grams; each started extra kilogram adds the per-kilogram surcharge.
func (c *Calculator) Calculate(_ context.Context, req ports.ShippingQuoteRequest) (decimal.Decimal, error) {
	fee := c.baseFee

	if req.TotalWeightGrams > 1000 {
		extraGrams := req.TotalWeightGrams - 1000
		startedKgs := (extraGrams + 999) / 1000
		fee = fee.Add(c.perExtraKgFee.Mul(decimal.NewFromInt(int64(startedKgs))))
	}

	if req.ExpressDelivery {
		fee = fee.Add(c.expressSurcharge)
	}

	return fee, nil
}

var _ ports.ShippingCalculator = (*Calculator)(nil)
