package queries

import (
	"errors"
	"time"

	"kopikurir/internal/pkg/errs"
	"kopikurir/internal/pkg/guard"
)

var ErrGetWorkerHealthQueryIsNotConstructed = errors.New(
	"GetWorkerHealthQuery must be created via NewGetWorkerHealthQuery constructor",
)

// GetWorkerHealthQuery reports whether a background worker is alive: its last
// recorded cycle must have succeeded and must have finished recently enough.
type GetWorkerHealthQuery struct {
	workerName string
	staleAfter time.Duration

	guard guard.ConstructorGuard
}

// NewGetWorkerHealthQuery creates a health query for one worker. staleAfter
// sets how old the last successful cycle may be before the worker counts as
// unhealthy.
func NewGetWorkerHealthQuery(workerName string, staleAfter time.Duration) (GetWorkerHealthQuery, error) {
	if workerName == "" {
		return GetWorkerHealthQuery{}, errs.NewValueIsRequiredError("workerName")
	}
	if staleAfter <= 0 {
		return GetWorkerHealthQuery{}, errs.NewValueIsInvalidError("staleAfter")
	}

	return GetWorkerHealthQuery{
		workerName: workerName,
		staleAfter: staleAfter,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// WorkerName returns the queried worker name.
func (q GetWorkerHealthQuery) WorkerName() string { return q.workerName }

// StaleAfter returns the staleness threshold.
func (q GetWorkerHealthQuery) StaleAfter() time.Duration { return q.staleAfter }

// Validate ensures the query was created through the constructor.
func (q GetWorkerHealthQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkerHealthQueryIsNotConstructed)
}

// GetWorkerHealthQueryResponse is the health view of one worker. LastRunAt is
// nil when the worker has never recorded a cycle.
type GetWorkerHealthQueryResponse struct {
	WorkerName  string     `json:"worker_name"`
	Healthy     bool       `json:"healthy"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	Succeeded   bool       `json:"succeeded"`
	Reconciled  int        `json:"reconciled"`
	Resent      int        `json:"resent"`
	Failed      int        `json:"failed"`
	ErrorDetail string     `json:"error_detail,omitempty"`
}
