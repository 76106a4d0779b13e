package ports

import (
	"context"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/tracking"
)

// LocationRepository persists the latest known position of each courier.
// Storage keeps one row per courier; a newer sample replaces the previous one.
type LocationRepository interface {
	// Upsert stores the sample, replacing any existing sample for the same
	// courier.
	Upsert(ctx context.Context, sample *tracking.LocationSample) error

	// GetByCourier retrieves the latest sample for a courier.
	// Returns errs.ErrObjectNotFound when the courier has never reported.
	GetByCourier(ctx context.Context, courierID kernel.UUID) (*tracking.LocationSample, error)

	// GetByCouriers retrieves the latest samples for a set of couriers in one
	// round trip. Couriers that never reported are absent from the result.
	GetByCouriers(ctx context.Context, courierIDs []kernel.UUID) ([]*tracking.LocationSample, error)
}
