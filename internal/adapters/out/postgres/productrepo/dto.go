// Package productrepo provides data transfer objects and mapping functions
// for catalog product persistence.
package productrepo

import (
	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the database structure for catalog products.
// StockQuantity is decremented atomically by ReserveStock.
type ProductDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name              string          `gorm:"index"`
	UnitPrice         decimal.Decimal `gorm:"type:numeric(14,2)"`
	WeightGrams       int
	TargetSkinProfile string
	StockQuantity     int
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// fromDomain converts a product domain entity to its database representation.
func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:                p.ID().Bytes(),
		Name:              p.Name(),
		UnitPrice:         p.UnitPrice(),
		WeightGrams:       p.WeightGrams(),
		TargetSkinProfile: string(p.TargetSkinProfile()),
		StockQuantity:     p.StockQuantity(),
	}
}

// toDomain converts a database DTO to a product domain entity.
func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(
		id,
		dto.Name,
		dto.UnitPrice,
		dto.WeightGrams,
		customer.SkinProfile(dto.TargetSkinProfile),
		dto.StockQuantity,
	)
}
