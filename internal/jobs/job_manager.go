package jobs

import (
	"fmt"
	"log/slog"

	"kopikurir/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	assignmentSweepJob     *AssignmentSweepJob
	outboundReliabilityJob *OutboundReliabilityJob
}

// NewJobManager creates a job manager wiring both background jobs to their
// command handlers.
func NewJobManager(
	assignHandler commands.AssignCouriersCommandHandler,
	outboundHandler commands.ProcessOutboundMessagesCommandHandler,
	sweepSchedule string,
	outboundSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		assignmentSweepJob:     NewAssignmentSweepJob(assignHandler, sweepSchedule, logger),
		outboundReliabilityJob: NewOutboundReliabilityJob(outboundHandler, outboundSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment sweep job: %w", err)
	}

	if err := jm.outboundReliabilityJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.assignmentSweepJob.Stop()
		return fmt.Errorf("failed to start outbound reliability job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboundReliabilityJob.Stop()
	jm.assignmentSweepJob.Stop()
}
