package locationrepo

import (
	"context"
	"errors"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/tracking"
	"kopikurir/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLocationRepository implements LocationRepository using GORM.
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GORM location repository.
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// Upsert stores the sample, overwriting any previous row for the courier.
func (r *GormLocationRepository) Upsert(ctx context.Context, sample *tracking.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	dto := fromDomain(sample)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "courier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lat", "lon", "accuracy", "speed", "updated_at"}),
		}).
		Create(&dto).Error
}

// GetByCourier retrieves the latest sample for one courier.
func (r *GormLocationRepository) GetByCourier(ctx context.Context, courierID kernel.UUID) (*tracking.LocationSample, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto LocationDTO
	err := r.db.WithContext(ctx).First(&dto, "courier_id = ?", courierID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("courierID", courierID.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// GetByCouriers retrieves the latest samples for a set of couriers. Couriers
// that never reported are simply absent from the result.
func (r *GormLocationRepository) GetByCouriers(ctx context.Context, courierIDs []kernel.UUID) ([]*tracking.LocationSample, error) {
	if len(courierIDs) == 0 {
		return []*tracking.LocationSample{}, nil
	}

	raw := make([]uuid.UUID, 0, len(courierIDs))
	for _, id := range courierIDs {
		raw = append(raw, id.Bytes())
	}

	var dtos []LocationDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "courier_id IN ?", raw).Error; err != nil {
		return nil, err
	}

	samples := make([]*tracking.LocationSample, 0, len(dtos))
	for _, dto := range dtos {
		sample, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, nil
}
