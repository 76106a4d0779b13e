package messagerepo

import (
	"context"
	"errors"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/outbound"
	"kopikurir/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Add saves a new message to the database.
func (r *GormMessageRepository) Add(ctx context.Context, aggregate *outbound.Message) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing message to the database.
func (r *GormMessageRepository) Update(ctx context.Context, aggregate *outbound.Message) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("message", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a message by ID.
func (r *GormMessageRepository) Get(ctx context.Context, id kernel.UUID) (*outbound.Message, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MessageDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("message", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllNeedingReconciliation retrieves messages with a provider identifier
// that are neither terminal nor waiting on a booked resend.
func (r *GormMessageRepository) GetAllNeedingReconciliation(ctx context.Context) ([]*outbound.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("provider_message_id <> ''").
		Where("status NOT IN ?", []string{
			outbound.StatusDelivered.String(),
			outbound.StatusRetryScheduled.String(),
		}).
		Where("NOT (status IN ? AND retry_count >= max_retries)", []string{
			outbound.StatusFailed.String(),
			outbound.StatusUndelivered.String(),
		}).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(dtos)
}

// GetAllDueForResend retrieves booked resends whose backoff has elapsed,
// earliest due first.
func (r *GormMessageRepository) GetAllDueForResend(ctx context.Context, now time.Time) ([]*outbound.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", outbound.StatusRetryScheduled.String()).
		Where("next_retry_at <= ?", now).
		Order("next_retry_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.restoreAll(dtos)
}

// CountRetryBacklog reports how many messages wait for a resend.
func (r *GormMessageRepository) CountRetryBacklog(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("status = ?", outbound.StatusRetryScheduled.String()).
		Count(&count).Error

	return count, err
}

func (r *GormMessageRepository) restoreAll(dtos []MessageDTO) ([]*outbound.Message, error) {
	messages := make([]*outbound.Message, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, aggregate)
	}

	return messages, nil
}
