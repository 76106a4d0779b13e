package queries

import (
	"context"
	"database/sql"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetFleetSnapshotQueryHandler reads all deliveries in preparation or on the
// road (processing, ready, delivering) with their couriers and latest
// positions in one round trip. Confirmed orders are not on the admin map yet
// even when a courier is already bound. Rows arrive sorted by
// courier ID then order number, so grouping is a single forward pass and the
// snapshot is byte-stable across identical states.
type GetFleetSnapshotQueryHandler struct {
	db *gorm.DB
}

// NewGetFleetSnapshotQueryHandler creates a handler for fleet snapshot
// queries.
func NewGetFleetSnapshotQueryHandler(db *gorm.DB) GetFleetSnapshotQueryHandler {
	return GetFleetSnapshotQueryHandler{db: db}
}

// Handle executes the snapshot query. An empty fleet yields an empty courier
// list, not an error.
func (h GetFleetSnapshotQueryHandler) Handle(
	ctx context.Context,
	query GetFleetSnapshotQuery,
) (GetFleetSnapshotQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFleetSnapshotQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name,
			c.status,
			l.lat,
			l.lon,
			l.accuracy,
			l.speed,
			l.updated_at,
			o.id,
			o.order_number,
			o.status
		FROM orders o
		JOIN couriers c ON c.id = o.courier_id
		LEFT JOIN courier_locations l ON l.courier_id = c.id
		WHERE o.status IN (?, ?, ?)
		  AND o.courier_id IS NOT NULL
		ORDER BY c.id, o.order_number
	`, order.Processing.String(),
		order.Ready.String(), order.Delivering.String()).Rows()
	if err != nil {
		return GetFleetSnapshotQueryResponse{}, err
	}
	defer rows.Close()

	response := GetFleetSnapshotQueryResponse{Couriers: make([]FleetCourierView, 0)}

	for rows.Next() {
		var (
			courierID                 uuid.UUID
			name, courierStatus       string
			lat, lon, accuracy, speed sql.NullFloat64
			locUpdatedAt              sql.NullTime
			orderID                   uuid.UUID
			orderNumber, orderStatus  string
		)

		if err = rows.Scan(
			&courierID, &name, &courierStatus,
			&lat, &lon, &accuracy, &speed, &locUpdatedAt,
			&orderID, &orderNumber, &orderStatus,
		); err != nil {
			return GetFleetSnapshotQueryResponse{}, err
		}

		cid, idErr := kernel.UUIDFromBytes(courierID[:])
		if idErr != nil {
			return GetFleetSnapshotQueryResponse{}, idErr
		}
		oid, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return GetFleetSnapshotQueryResponse{}, idErr
		}

		orderView := FleetOrderView{
			OrderID:     oid,
			OrderNumber: orderNumber,
			Status:      orderStatus,
		}

		last := len(response.Couriers) - 1
		if last >= 0 && response.Couriers[last].CourierID.IsEqual(cid) {
			response.Couriers[last].Orders = append(response.Couriers[last].Orders, orderView)
			continue
		}

		view := FleetCourierView{
			CourierID: cid,
			Name:      name,
			Status:    courierStatus,
			Orders:    []FleetOrderView{orderView},
		}
		if lat.Valid && lon.Valid {
			view.Location = &LocationView{
				Lat:       lat.Float64,
				Lon:       lon.Float64,
				Accuracy:  accuracy.Float64,
				Speed:     speed.Float64,
				UpdatedAt: locUpdatedAt.Time,
			}
		}
		response.Couriers = append(response.Couriers, view)
	}

	if err = rows.Err(); err != nil {
		return GetFleetSnapshotQueryResponse{}, err
	}

	return response, nil
}
