// Package courierrepo provides data transfer objects and mapping functions
// for courier persistence. The courier's active order count is never stored;
// it is derived from the orders table whenever a courier is loaded.
package courierrepo

import (
	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier
// aggregates. ActiveOrders is populated by a subquery at load time and is not
// a column.
type CourierDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:255"`
	Phone        string    `gorm:"size:32"`
	Status       string    `gorm:"index;size:16"`
	IsActive     bool      `gorm:"index"`
	ActiveOrders int       `gorm:"-:migration"`
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:       aggregate.ID().Bytes(),
		Name:     aggregate.Name(),
		Phone:    aggregate.Phone(),
		Status:   aggregate.Status().String(),
		IsActive: aggregate.IsActive(),
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := courier.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, dto.Phone, status, dto.IsActive, dto.ActiveOrders)
}
