// Package jobs provides scheduled background tasks for the delivery system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the delivery service.
//
// # Available Jobs
//
// 1. AssignmentSweepJob - Periodically binds unassigned delivery orders to
// selectable couriers via the load-aware round robin.
// 2. OutboundReliabilityJob - Periodically reconciles provider statuses for
// outbound notifications, resends due retries, and records run health.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(assignHandler, outboundHandler,
//		jobs.DefaultAssignmentSweepSchedule, jobs.DefaultOutboundReliabilitySchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions with a seconds field. The sweep
// defaults to every ten seconds; the reliability worker to once a minute.
// Overlap across processes is safe: the reliability worker serializes itself
// through a database advisory lock, and the sweep only performs conditional
// writes.
//
// # Error Handling
//
// - The sweep treats an empty courier pool as an expected condition.
// - The reliability job logs cycle failures; health reporting is persisted by
// the handler itself even for failed cycles.
// - Failed job starts will stop any already running jobs.
package jobs
