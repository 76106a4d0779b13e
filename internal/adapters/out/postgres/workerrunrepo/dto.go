// Package workerrunrepo records background worker cycles for health
// reporting.
package workerrunrepo

import (
	"time"

	"kopikurir/internal/core/ports"
)

// WorkerRunDTO represents the database structure for worker cycle records.
// Rows are append-only; health queries read the latest one per worker.
type WorkerRunDTO struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	WorkerName  string `gorm:"index;size:64"`
	StartedAt   time.Time
	FinishedAt  time.Time `gorm:"index"`
	Succeeded   bool
	Reconciled  int
	Resent      int
	Failed      int
	ErrorDetail string
}

// TableName specifies the database table name for worker run records.
func (WorkerRunDTO) TableName() string {
	return "worker_runs"
}

// fromRecord converts a run record to its database representation.
func fromRecord(run ports.WorkerRun) WorkerRunDTO {
	return WorkerRunDTO{
		WorkerName:  run.WorkerName,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		Succeeded:   run.Succeeded,
		Reconciled:  run.Reconciled,
		Resent:      run.Resent,
		Failed:      run.Failed,
		ErrorDetail: run.ErrorDetail,
	}
}

// toRecord converts a database DTO to a run record.
func toRecord(dto WorkerRunDTO) ports.WorkerRun {
	return ports.WorkerRun{
		WorkerName:  dto.WorkerName,
		StartedAt:   dto.StartedAt,
		FinishedAt:  dto.FinishedAt,
		Succeeded:   dto.Succeeded,
		Reconciled:  dto.Reconciled,
		Resent:      dto.Resent,
		Failed:      dto.Failed,
		ErrorDetail: dto.ErrorDetail,
	}
}
