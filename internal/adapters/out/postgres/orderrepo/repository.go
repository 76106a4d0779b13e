package orderrepo

import (
	"context"
	"errors"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/errs"

	"gorm.io/gorm"
)

// versionTracker remembers the version each aggregate had when it was loaded,
// so updates can be made conditional on that version.
type versionTracker interface {
	TrackLoadedVersion(id kernel.UUID, version int)
	LoadedVersion(id kernel.UUID) (int, bool)
}

// GormOrderRepository implements OrderRepository using GORM. Updates are
// conditional writes on the version the aggregate was loaded with; a write
// that matches no row because of a version mismatch surfaces as
// errs.ErrVersionIsInvalid.
type GormOrderRepository struct {
	db       *gorm.DB
	versions versionTracker
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, versions versionTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:       db,
		versions: versions,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.versions.TrackLoadedVersion(aggregate.ID(), aggregate.Version())
	return nil
}

// Update saves an existing order. When the stored version no longer matches
// the version the aggregate was loaded with, no row is touched and the update
// fails with a version error.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	tx := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID)

	expected, tracked := r.versions.LoadedVersion(aggregate.ID())
	if tracked {
		tx = tx.Where("version = ?", expected)
	}

	result := tx.Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if tracked {
			return errs.NewVersionIsInvalidError("version")
		}
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.versions.TrackLoadedVersion(aggregate.ID(), aggregate.Version())
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	aggregate, err := toDomain(dto)
	if err != nil {
		return nil, err
	}

	r.versions.TrackLoadedVersion(aggregate.ID(), aggregate.Version())
	return aggregate, nil
}

// GetAllAssignable retrieves delivery orders waiting for a courier, oldest
// order number first so the round robin works through the backlog in order.
func (r *GormOrderRepository) GetAllAssignable(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("delivery_type = ?", order.DeliveryTypeDelivery.String()).
		Where("courier_id IS NULL").
		Where("status IN ?", []string{
			order.Confirmed.String(),
			order.Processing.String(),
			order.Ready.String(),
			order.Delivering.String(),
		}).
		Order("order_number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(dtos)
}

// GetAllInActiveDelivery retrieves orders moving through the delivery
// pipeline with a courier bound.
func (r *GormOrderRepository) GetAllInActiveDelivery(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("courier_id IS NOT NULL").
		Where("status IN ?", []string{
			order.Confirmed.String(),
			order.Processing.String(),
			order.Ready.String(),
			order.Delivering.String(),
		}).
		Order("order_number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(dtos)
}

func (r *GormOrderRepository) restoreAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		r.versions.TrackLoadedVersion(aggregate.ID(), aggregate.Version())
		orders = append(orders, aggregate)
	}

	return orders, nil
}
