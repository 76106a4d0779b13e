package ports

import (
	"context"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using a
	// conditional write on the stored version.
	// Returns errs.ErrVersionIsInvalid when another writer has modified the
	// order since it was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllAssignable retrieves delivery orders that are waiting for a
	// courier: confirmed or later, not terminal, with no courier bound.
	// Used by the assignment sweep.
	GetAllAssignable(ctx context.Context) ([]*order.Order, error)

	// GetAllInActiveDelivery retrieves orders currently moving through the
	// delivery pipeline with a courier bound. Feeds the fleet snapshot.
	GetAllInActiveDelivery(ctx context.Context) ([]*order.Order, error)
}
