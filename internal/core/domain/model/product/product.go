// Package product contains the catalog product aggregate. Order lines
// snapshot product data at build time, so the aggregate here is the source
// of the copy, never referenced by a live order afterwards.
package product

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductIsNotConstructed is returned when a Product instance was not
	// created through the NewProduct factory method.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

	// ErrNameIsRequired is returned when a product name is empty.
	ErrNameIsRequired = errors.New("product name is required")
)

// Product is a catalog entry. Orders never reference a Product directly;
// OrderBuilder copies the name and unit price into an immutable OrderLine
// so later catalog edits cannot change an existing order.
type Product struct {
	id kernel.UUID

	name      string
	unitPrice decimal.Decimal

	// weightGrams feeds the shipping-rate calculation
	weightGrams int

	// targetSkinProfile enables profile-matched discounts when it equals
	// the purchaser's quiz result
	targetSkinProfile customer.SkinProfile

	stockQuantity int

	isConstructed bool
}

// NewProduct creates a Product with validation. Unit price must not be
// negative and weight must be positive.
func NewProduct(id kernel.UUID, name string, unitPrice decimal.Decimal, weightGrams int) (*Product, error) {
	p := &Product{
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setUnitPrice(unitPrice),
		p.setWeightGrams(weightGrams),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProduct reconstructs a Product from persistence including stock
// level and target profile.
func RestoreProduct(
	id kernel.UUID,
	name string,
	unitPrice decimal.Decimal,
	weightGrams int,
	targetSkinProfile customer.SkinProfile,
	stockQuantity int,
) (*Product, error) {
	p, err := NewProduct(id, name, unitPrice, weightGrams)
	if err != nil {
		return nil, err
	}

	p.targetSkinProfile = targetSkinProfile
	p.stockQuantity = stockQuantity
	return p, nil
}

// Validate ensures the Product instance was properly constructed.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// Name returns the product's display name.
func (p *Product) Name() string {
	return p.name
}

// UnitPrice returns the current catalog price for one unit.
func (p *Product) UnitPrice() decimal.Decimal {
	return p.unitPrice
}

// WeightGrams returns the shipping weight of one unit.
func (p *Product) WeightGrams() int {
	return p.weightGrams
}

// TargetSkinProfile returns the profile this product is formulated for.
// SkinProfileUnknown means the product is not profile-targeted.
func (p *Product) TargetSkinProfile() customer.SkinProfile {
	return p.targetSkinProfile
}

// StockQuantity returns the number of units currently in stock.
func (p *Product) StockQuantity() int {
	return p.stockQuantity
}

// IsInStock reports whether the requested quantity can be fulfilled.
func (p *Product) IsInStock(quantity int) bool {
	return quantity > 0 && p.stockQuantity >= quantity
}

// SetTargetSkinProfile marks the product as formulated for the given profile.
func (p *Product) SetTargetSkinProfile(profile customer.SkinProfile) {
	p.targetSkinProfile = profile
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Product) setUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price is invalid",
			fmt.Errorf("%s is negative", unitPrice.String()))
	}
	p.unitPrice = unitPrice
	return nil
}

func (p *Product) setWeightGrams(weightGrams int) error {
	if weightGrams <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight is invalid",
			fmt.Errorf("%d is not greater than 0", weightGrams))
	}
	p.weightGrams = weightGrams
	return nil
}
