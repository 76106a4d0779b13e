package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTrackingQueryHandler reads one order with its courier and the
// courier's latest position in a single round trip. The order row is restored
// into the domain aggregate so the reported actions are computed by the same
// rules that accept or reject transitions.
type GetOrderTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTrackingQueryHandler creates a handler for order tracking
// queries.
func NewGetOrderTrackingQueryHandler(db *gorm.DB) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db}
}

// Handle executes the tracking query.
// Returns errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			o.status,
			o.delivery_type,
			o.courier_id,
			o.assigned_at,
			o.kurir_arrived_at,
			o.pickup_time,
			o.delivery_time,
			o.dest_lat,
			o.dest_lon,
			o.payment_method,
			o.payment_status,
			o.version,
			c.name,
			c.phone,
			l.lat,
			l.lon,
			l.accuracy,
			l.speed,
			l.updated_at
		FROM orders o
		LEFT JOIN couriers c ON c.id = o.courier_id
		LEFT JOIN courier_locations l ON l.courier_id = o.courier_id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id                                                 uuid.UUID
		orderNumber, status, deliveryType                  string
		courierID                                          uuid.NullUUID
		assignedAt, kurirArrivedAt, pickupTime, deliveryAt sql.NullTime
		destLat, destLon                                   sql.NullFloat64
		paymentMethod, paymentStatus                       string
		version                                            int
		courierName, courierPhone                          sql.NullString
		lat, lon, accuracy, speed                          sql.NullFloat64
		locUpdatedAt                                       sql.NullTime
	)

	err := row.Scan(
		&id, &orderNumber, &status, &deliveryType,
		&courierID, &assignedAt, &kurirArrivedAt, &pickupTime, &deliveryAt,
		&destLat, &destLon, &paymentMethod, &paymentStatus, &version,
		&courierName, &courierPhone,
		&lat, &lon, &accuracy, &speed, &locUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderTrackingQueryResponse{},
			errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	aggregate, err := restoreOrderRow(
		id, orderNumber, status, deliveryType, courierID,
		assignedAt, kurirArrivedAt, pickupTime, deliveryAt,
		destLat, destLon, paymentMethod, paymentStatus, version)
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response := GetOrderTrackingQueryResponse{
		OrderID:     aggregate.ID(),
		OrderNumber: aggregate.OrderNumber(),
		Status:      aggregate.Status().String(),
		Terminal:    aggregate.Status().IsTerminal(),
		Actions:     aggregate.AvailableActions(),
	}

	if aggregate.Courier() != nil {
		response.Courier = &CourierView{
			ID:    *aggregate.Courier(),
			Name:  courierName.String,
			Phone: courierPhone.String,
		}
	}
	if lat.Valid && lon.Valid {
		response.Location = &LocationView{
			Lat:       lat.Float64,
			Lon:       lon.Float64,
			Accuracy:  accuracy.Float64,
			Speed:     speed.Float64,
			UpdatedAt: locUpdatedAt.Time,
		}
	}

	return response, nil
}

// restoreOrderRow rebuilds the order aggregate from scanned columns.
func restoreOrderRow(
	id uuid.UUID,
	orderNumber, status, deliveryType string,
	courierID uuid.NullUUID,
	assignedAt, kurirArrivedAt, pickupTime, deliveryAt sql.NullTime,
	destLat, destLon sql.NullFloat64,
	paymentMethod, paymentStatus string,
	version int,
) (*order.Order, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}

	orderStatus, err := order.StatusFromString(status)
	if err != nil {
		return nil, err
	}

	var courierRef *kernel.UUID
	if courierID.Valid {
		ref, refErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if refErr != nil {
			return nil, refErr
		}
		courierRef = &ref
	}

	var destination *kernel.GeoPoint
	if destLat.Valid && destLon.Valid {
		point, pointErr := kernel.NewGeoPoint(destLat.Float64, destLon.Float64)
		if pointErr != nil {
			return nil, pointErr
		}
		destination = &point
	}

	return order.RestoreOrder(
		orderID, orderNumber, orderStatus, order.DeliveryType(deliveryType),
		courierRef,
		nullTimePtr(assignedAt), nullTimePtr(kurirArrivedAt),
		nullTimePtr(pickupTime), nullTimePtr(deliveryAt),
		destination, paymentMethod, paymentStatus, version)
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
