package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The repository owns the atomicity of the load-mutate-persist cycle; the
// core applies transitions to in-memory aggregates only.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetPendingCreatedBefore retrieves orders still in Pending status whose
	// creation predates the cutoff. Used by the stale-order cancellation job.
	GetPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
