package queries

import (
	"errors"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/guard"
)

var ErrGetFleetSnapshotQueryIsNotConstructed = errors.New(
	"GetFleetSnapshotQuery must be created via NewGetFleetSnapshotQuery constructor",
)

// GetFleetSnapshotQuery retrieves every active delivery grouped by courier,
// each courier with its latest reported position. Feeds the back office fleet
// map and the fleet stream.
type GetFleetSnapshotQuery struct {
	guard guard.ConstructorGuard
}

// NewGetFleetSnapshotQuery creates a parameterless fleet snapshot query.
func NewGetFleetSnapshotQuery() GetFleetSnapshotQuery {
	return GetFleetSnapshotQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetFleetSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrGetFleetSnapshotQueryIsNotConstructed)
}

// FleetOrderView is one active delivery carried by a courier.
type FleetOrderView struct {
	OrderID     kernel.UUID `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
}

// FleetCourierView is one courier with its load and latest position.
type FleetCourierView struct {
	CourierID kernel.UUID      `json:"courier_id"`
	Name      string           `json:"name"`
	Status    string           `json:"status"`
	Location  *LocationView    `json:"location,omitempty"`
	Orders    []FleetOrderView `json:"orders"`
}

// GetFleetSnapshotQueryResponse lists couriers with active deliveries, sorted
// by courier ID so the snapshot serializes deterministically.
type GetFleetSnapshotQueryResponse struct {
	Couriers []FleetCourierView `json:"couriers"`
}
