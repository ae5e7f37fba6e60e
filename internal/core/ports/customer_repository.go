package ports

import (
	"context"

	"orderflow/internal/core/domain/model/customer"
	"orderflow/internal/core/domain/model/kernel"
)

// CustomerRepository defines the persistence contract for customers.
type CustomerRepository interface {
	// Get retrieves a customer by their unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)
}
