package jobs

import (
	"context"
	"log/slog"

	"kopikurir/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultOutboundReliabilitySchedule runs the worker once a minute.
const DefaultOutboundReliabilitySchedule = "0 * * * * *"

// OutboundReliabilityJob periodically drives queued notifications to a
// terminal state: it reconciles provider statuses, resends due retries, and
// records the run for health reporting. The handler holds a database advisory
// lock for the whole cycle, so overlapping instances across processes degrade
// to clean no-ops.
type OutboundReliabilityJob struct {
	handler  commands.ProcessOutboundMessagesCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutboundReliabilityJob creates the reliability job on the given cron
// schedule (six-field expression with seconds).
func NewOutboundReliabilityJob(
	handler commands.ProcessOutboundMessagesCommandHandler,
	schedule string,
	logger *slog.Logger,
) *OutboundReliabilityJob {
	return &OutboundReliabilityJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "outbound_reliability_job"),
	}
}

// Start begins the periodic worker cycle.
func (j *OutboundReliabilityJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		// A panicking cycle must not take the cron scheduler down; the
		// handler's defers have already released the advisory lock.
		defer func() {
			if r := recover(); r != nil {
				j.logger.ErrorContext(ctx, "Outbound reliability cycle panicked", "panic", r)
			}
		}()

		cmd := commands.NewProcessOutboundMessagesCommand()
		if err := j.handler.Handle(ctx, cmd); err != nil {
			// The run record and metrics are already persisted by the
			// handler; the log line is for the on-call trail.
			j.logger.ErrorContext(ctx, "Outbound reliability cycle failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbound reliability job started",
		"schedule", j.schedule)
	return nil
}

// Stop stops the reliability job.
func (j *OutboundReliabilityJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbound reliability job stopped")
}
