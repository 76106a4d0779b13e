// Package ports defines repository and gateway interfaces for the delivery
// subsystem. These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
// Active-order counts are derived from the orders table at load time, so
// restored couriers always reflect their real current load.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	// The courier must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier, including
	// its derived active-order count.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllSelectable retrieves every courier that may receive work: active
	// couriers whose status is not offline. The result includes busy couriers
	// because assignment balances load across them when no idle courier
	// remains.
	GetAllSelectable(ctx context.Context) ([]*courier.Courier, error)
}
