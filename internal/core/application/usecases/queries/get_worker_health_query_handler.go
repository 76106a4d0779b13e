package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

// GetWorkerHealthQueryHandler reads the most recent run record of a worker
// and derives its health from the outcome and the age of the cycle.
type GetWorkerHealthQueryHandler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGetWorkerHealthQueryHandler creates a handler for worker health queries.
func NewGetWorkerHealthQueryHandler(db *gorm.DB) GetWorkerHealthQueryHandler {
	return GetWorkerHealthQueryHandler{db: db, now: time.Now}
}

// Handle executes the health query. A worker without any recorded run is
// reported unhealthy rather than missing.
func (h GetWorkerHealthQueryHandler) Handle(
	ctx context.Context,
	query GetWorkerHealthQuery,
) (GetWorkerHealthQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWorkerHealthQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			finished_at,
			succeeded,
			reconciled,
			resent,
			failed,
			error_detail
		FROM worker_runs
		WHERE worker_name = ?
		ORDER BY finished_at DESC
		LIMIT 1
	`, query.WorkerName()).Row()

	var (
		finishedAt  time.Time
		succeeded   bool
		reconciled  int
		resent      int
		failed      int
		errorDetail sql.NullString
	)

	err := row.Scan(&finishedAt, &succeeded, &reconciled, &resent, &failed, &errorDetail)
	if errors.Is(err, sql.ErrNoRows) {
		return GetWorkerHealthQueryResponse{
			WorkerName: query.WorkerName(),
			Healthy:    false,
		}, nil
	}
	if err != nil {
		return GetWorkerHealthQueryResponse{}, err
	}

	fresh := h.now().Sub(finishedAt) <= query.StaleAfter()

	return GetWorkerHealthQueryResponse{
		WorkerName:  query.WorkerName(),
		Healthy:     succeeded && fresh,
		LastRunAt:   &finishedAt,
		Succeeded:   succeeded,
		Reconciled:  reconciled,
		Resent:      resent,
		Failed:      failed,
		ErrorDetail: errorDetail.String,
	}, nil
}
