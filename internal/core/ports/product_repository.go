package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for catalog products.
type ProductRepository interface {
	// Get retrieves a product by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// ReserveStock decrements the available stock for the given product.
	// Fails when the remaining stock cannot cover the quantity.
	ReserveStock(ctx context.Context, id kernel.UUID, quantity int) error
}
