package courierrepo

import (
	"context"

	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCourierRepository implements CourierRepository using GORM. Every load
// computes the courier's active order count from the orders table, so the
// domain aggregate always sees the real current load.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// activeOrderStatuses are the order states that count toward a courier's load.
func activeOrderStatuses() []string {
	return []string{
		order.Confirmed.String(),
		order.Processing.String(),
		order.Ready.String(),
		order.Delivering.String(),
	}
}

const courierWithLoadSQL = `
	SELECT
		c.id,
		c.name,
		c.phone,
		c.status,
		c.is_active,
		(
			SELECT COUNT(*)
			FROM orders o
			WHERE o.courier_id = c.id AND o.status IN (?)
		) AS active_orders
	FROM couriers c
`

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing courier to the database.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select("name", "phone", "status", "is_active").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a courier by ID with its derived active order count.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	err := r.db.WithContext(ctx).
		Raw(courierWithLoadSQL+" WHERE c.id = ?", activeOrderStatuses(), id.Bytes()).
		Scan(&dto).Error
	if err != nil {
		return nil, err
	}
	if dto.ID == uuid.Nil {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}

	return toDomain(dto)
}

// GetAllSelectable retrieves every active, non-offline courier with derived
// load, ordered by ID for deterministic assignment sweeps.
func (r *GormCourierRepository) GetAllSelectable(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Raw(courierWithLoadSQL+` WHERE c.is_active AND c.status <> ? ORDER BY c.id`,
			activeOrderStatuses(), courier.StatusOffline.String()).
		Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, restoreErr := toDomain(dto)
		if restoreErr != nil {
			return nil, restoreErr
		}
		couriers = append(couriers, aggregate)
	}

	return couriers, nil
}
