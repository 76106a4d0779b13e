// Package locationrepo persists the latest known position of each courier.
// The table holds one row per courier; newer samples overwrite older ones.
package locationrepo

import (
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// LocationDTO represents the database structure for the latest courier
// position. CourierID is the primary key, which enforces one row per courier.
type LocationDTO struct {
	CourierID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Lat       float64
	Lon       float64
	Accuracy  float64
	Speed     float64
	UpdatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for courier positions.
func (LocationDTO) TableName() string {
	return "courier_locations"
}

// fromDomain converts a location sample to its database representation.
func fromDomain(sample *tracking.LocationSample) LocationDTO {
	return LocationDTO{
		CourierID: sample.CourierID().Bytes(),
		Lat:       sample.Point().Lat(),
		Lon:       sample.Point().Lon(),
		Accuracy:  sample.Accuracy(),
		Speed:     sample.Speed(),
		UpdatedAt: sample.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a location sample.
func toDomain(dto LocationDTO) (*tracking.LocationSample, error) {
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	sample, err := tracking.NewLocationSample(courierID, point, dto.Accuracy, dto.Speed, dto.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &sample, nil
}
