package workerrunrepo

import (
	"context"
	"errors"
	"time"

	"kopikurir/internal/core/ports"
	"kopikurir/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWorkerRunRepository implements WorkerRunRepository using GORM.
type GormWorkerRunRepository struct {
	db *gorm.DB
}

// NewGormWorkerRunRepository creates a new GORM worker run repository.
func NewGormWorkerRunRepository(db *gorm.DB) *GormWorkerRunRepository {
	return &GormWorkerRunRepository{db: db}
}

// Record appends one worker cycle record.
func (r *GormWorkerRunRepository) Record(ctx context.Context, run ports.WorkerRun) error {
	dto := fromRecord(run)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetLastRun retrieves the most recent cycle record for a worker.
func (r *GormWorkerRunRepository) GetLastRun(ctx context.Context, workerName string) (*ports.WorkerRun, error) {
	var dto WorkerRunDTO
	err := r.db.WithContext(ctx).
		Where("worker_name = ?", workerName).
		Order("finished_at DESC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("workerName", workerName)
	}
	if err != nil {
		return nil, err
	}

	run := toRecord(dto)
	return &run, nil
}

// CountFailedSince sums per-cycle failure counts recorded after the given
// time.
func (r *GormWorkerRunRepository) CountFailedSince(
	ctx context.Context, workerName string, since time.Time,
) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&WorkerRunDTO{}).
		Where("worker_name = ? AND finished_at >= ?", workerName, since).
		Select("COALESCE(SUM(failed), 0)").
		Scan(&total).Error
	return total, err
}
