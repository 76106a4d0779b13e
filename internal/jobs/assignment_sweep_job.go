package jobs

import (
	"context"
	"errors"
	"log/slog"

	"kopikurir/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultAssignmentSweepSchedule runs the sweep every ten seconds, frequent
// enough that a confirmed order rarely waits a full interval for a courier.
const DefaultAssignmentSweepSchedule = "*/10 * * * * *"

// AssignmentSweepJob periodically matches unassigned delivery orders with
// selectable couriers. The sweep backs up the per-confirmation trigger: any
// order the event-driven path missed is picked up here.
type AssignmentSweepJob struct {
	handler  commands.AssignCouriersCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAssignmentSweepJob creates the sweep job on the given cron schedule
// (six-field expression with seconds).
func NewAssignmentSweepJob(
	handler commands.AssignCouriersCommandHandler,
	schedule string,
	logger *slog.Logger,
) *AssignmentSweepJob {
	return &AssignmentSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "assignment_sweep_job"),
	}
}

// Start begins the periodic sweep.
func (j *AssignmentSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewAssignCouriersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// An empty courier pool is an expected condition; the handler has
			// already published the unassigned backlog.
			if errors.Is(err, commands.ErrNoSelectableCouriers) {
				j.logger.InfoContext(ctx, "Orders waiting but no selectable couriers")
				return
			}
			j.logger.ErrorContext(ctx, "Assignment sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment sweep job started",
		"schedule", j.schedule)
	return nil
}

// Stop stops the sweep job.
func (j *AssignmentSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment sweep job stopped")
}
