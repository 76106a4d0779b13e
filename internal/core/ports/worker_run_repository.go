package ports

import (
	"context"
	"time"
)

// WorkerRun is the operational record of one reliability worker cycle. It is
// plain telemetry rather than a domain aggregate, so it is modeled as a flat
// record.
type WorkerRun struct {
	WorkerName  string
	StartedAt   time.Time
	FinishedAt  time.Time
	Succeeded   bool
	Reconciled  int
	Resent      int
	Failed      int
	ErrorDetail string
}

// WorkerRunRepository records reliability worker cycles for health reporting.
type WorkerRunRepository interface {
	// Record appends the outcome of one worker cycle. It is called even when
	// the cycle failed, so health reporting can surface broken workers.
	Record(ctx context.Context, run WorkerRun) error

	// GetLastRun retrieves the most recent recorded cycle for a worker.
	// Returns errs.ErrObjectNotFound when the worker has never run.
	GetLastRun(ctx context.Context, workerName string) (*WorkerRun, error)

	// CountFailedSince sums the per-cycle failure counts recorded for a
	// worker after the given time. Alert evaluation reads it to judge a
	// trailing window.
	CountFailedSince(ctx context.Context, workerName string, since time.Time) (int64, error)
}
