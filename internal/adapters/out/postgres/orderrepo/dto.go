// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored as strings so the table stays readable and the domain
// enum can grow without renumbering. The version column backs optimistic
// locking on updates.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber    string     `gorm:"uniqueIndex;size:32"`
	Status         string     `gorm:"index;size:16"`
	DeliveryType   string     `gorm:"size:16"`
	CourierID      *uuid.UUID `gorm:"type:uuid;index"`
	AssignedAt     *time.Time
	KurirArrivedAt *time.Time
	PickupTime     *time.Time
	DeliveryTime   *time.Time
	DestLat        *float64
	DestLon        *float64
	PaymentMethod  string `gorm:"size:32"`
	PaymentStatus  string `gorm:"size:32"`
	Version        int
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var destLat, destLon *float64
	if dest := aggregate.Destination(); dest != nil {
		lat, lon := dest.Lat(), dest.Lon()
		destLat, destLon = &lat, &lon
	}

	return OrderDTO{
		ID:             aggregate.ID().Bytes(),
		OrderNumber:    aggregate.OrderNumber(),
		Status:         aggregate.Status().String(),
		DeliveryType:   aggregate.DeliveryType().String(),
		CourierID:      courierID,
		AssignedAt:     aggregate.AssignedAt(),
		KurirArrivedAt: aggregate.KurirArrivedAt(),
		PickupTime:     aggregate.PickupTime(),
		DeliveryTime:   aggregate.DeliveryTime(),
		DestLat:        destLat,
		DestLon:        destLon,
		PaymentMethod:  aggregate.PaymentMethod(),
		PaymentStatus:  aggregate.PaymentStatus(),
		Version:        aggregate.Version(),
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder, so the restored order enforces the same rules as a fresh one.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	var destination *kernel.GeoPoint
	if dto.DestLat != nil && dto.DestLon != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.DestLat, *dto.DestLon)
		if pointErr != nil {
			return nil, pointErr
		}
		destination = &point
	}

	return order.RestoreOrder(
		id, dto.OrderNumber, status, order.DeliveryType(dto.DeliveryType),
		courierID,
		dto.AssignedAt, dto.KurirArrivedAt, dto.PickupTime, dto.DeliveryTime,
		destination, dto.PaymentMethod, dto.PaymentStatus, dto.Version)
}
