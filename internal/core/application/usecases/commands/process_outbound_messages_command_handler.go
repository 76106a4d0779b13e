package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kopikurir/internal/core/domain/model/outbound"
	"kopikurir/internal/core/ports"
)

// OutboundWorkerName identifies the reliability worker in run records and the
// advisory lock namespace.
const OutboundWorkerName = "outbound_reliability"

// WorkerMetrics receives operational signals from the reliability worker.
type WorkerMetrics interface {
	ObserveWorkerRun(succeeded bool)
	SetRetryBacklog(count int64)
	ObserveWorkerAlert(reason string)
}

// WorkerThresholds bounds the alert evaluation after each cycle. A zero value
// disables the corresponding check.
type WorkerThresholds struct {
	// FailureWindow is the trailing window over which per-cycle failure
	// counts are summed.
	FailureWindow time.Duration
	// MaxFailures is the failure count within bounds; one more raises the
	// alert.
	MaxFailures int64
	// MaxBacklog is the retry backlog size within bounds.
	MaxBacklog int64
}

// ProcessOutboundMessagesCommandHandler runs one reliability worker cycle.
// The cycle holds a database advisory lock for its whole duration so that
// multiple application instances never double-send. Each cycle has two
// passes: reconcile delivery statuses with the provider, then resend
// messages whose backoff window has elapsed. One broken message never stops
// the rest of the queue; its failure is logged and counted instead.
type ProcessOutboundMessagesCommandHandler struct {
	uowFactory  WorkerUoWFactory
	provider    ports.SMSProvider
	lock        ports.AdvisoryLock
	metrics     WorkerMetrics
	log         *slog.Logger
	lockWait    time.Duration
	backoffBase time.Duration
	thresholds  WorkerThresholds
	now         func() time.Time
}

// NewProcessOutboundMessagesCommandHandler creates a handler for reliability
// worker cycles.
func NewProcessOutboundMessagesCommandHandler(
	uowFactory WorkerUoWFactory,
	provider ports.SMSProvider,
	lock ports.AdvisoryLock,
	metrics WorkerMetrics,
	log *slog.Logger,
	lockWait time.Duration,
	backoffBase time.Duration,
	thresholds WorkerThresholds,
) ProcessOutboundMessagesCommandHandler {
	return ProcessOutboundMessagesCommandHandler{
		uowFactory:  uowFactory,
		provider:    provider,
		lock:        lock,
		metrics:     metrics,
		log:         log.With("component", "outbound-worker"),
		lockWait:    lockWait,
		backoffBase: backoffBase,
		thresholds:  thresholds,
		now:         time.Now,
	}
}

// Handle runs one cycle. When another instance holds the lock for the whole
// wait window the cycle exits cleanly without touching the queue. The run
// record is persisted even when the cycle fails, so health reporting can see
// broken workers.
func (h ProcessOutboundMessagesCommandHandler) Handle(ctx context.Context, command ProcessOutboundMessagesCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	acquired, err := h.lock.TryAcquire(ctx, OutboundWorkerName, h.lockWait)
	if err != nil {
		return err
	}
	if !acquired {
		h.log.InfoContext(ctx, "cycle skipped, lock held by another instance")
		return nil
	}

	defer func() {
		if releaseErr := h.lock.Release(ctx, OutboundWorkerName); releaseErr != nil {
			h.log.ErrorContext(ctx, "lock release failed", "error", releaseErr)
		}
	}()

	started := h.now()
	reconciled, reconcileFailed, resent, resendFailed, cycleErr := h.runPasses(ctx)

	run := ports.WorkerRun{
		WorkerName: OutboundWorkerName,
		StartedAt:  started,
		FinishedAt: h.now(),
		Succeeded:  cycleErr == nil,
		Reconciled: reconciled,
		Resent:     resent,
		Failed:     reconcileFailed + resendFailed,
	}
	if cycleErr != nil {
		run.ErrorDetail = cycleErr.Error()
	}
	if recordErr := h.recordRun(ctx, run); recordErr != nil {
		h.log.ErrorContext(ctx, "run record not persisted", "error", recordErr)
	}
	h.metrics.ObserveWorkerRun(cycleErr == nil)
	h.evaluateAlerts(ctx)

	return cycleErr
}

// runPasses executes both queue passes, converting a panic into a cycle error
// so the run record, alert evaluation and lock release still happen.
func (h ProcessOutboundMessagesCommandHandler) runPasses(
	ctx context.Context,
) (reconciled, reconcileFailed, resent, resendFailed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()

	var reconcileErr, resendErr error
	reconciled, reconcileFailed, reconcileErr = h.reconcilePass(ctx)
	resent, resendFailed, resendErr = h.resendPass(ctx)

	return reconciled, reconcileFailed, resent, resendFailed,
		errors.Join(reconcileErr, resendErr)
}

// evaluateAlerts compares the trailing failure count and the retry backlog
// against the configured thresholds and raises the ops alert signal when one
// is exceeded. It runs after every cycle, including failed ones; this is the
// worker's only proactive failure signal.
func (h ProcessOutboundMessagesCommandHandler) evaluateAlerts(ctx context.Context) {
	failureCheck := h.thresholds.MaxFailures > 0 && h.thresholds.FailureWindow > 0
	backlogCheck := h.thresholds.MaxBacklog > 0
	if !failureCheck && !backlogCheck {
		return
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.log.ErrorContext(ctx, "alert evaluation skipped", "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if failureCheck {
		since := h.now().Add(-h.thresholds.FailureWindow)
		failures, err := uow.WorkerRunRepository().CountFailedSince(ctx, OutboundWorkerName, since)
		switch {
		case err != nil:
			h.log.ErrorContext(ctx, "failure window not evaluated", "error", err)
		case failures > h.thresholds.MaxFailures:
			h.metrics.ObserveWorkerAlert("failure_window")
			h.log.ErrorContext(ctx, "worker alert raised",
				"reason", "failure_window",
				"failures", failures,
				"threshold", h.thresholds.MaxFailures,
				"window", h.thresholds.FailureWindow)
		}
	}

	if backlogCheck {
		backlog, err := uow.MessageRepository().CountRetryBacklog(ctx)
		switch {
		case err != nil:
			h.log.ErrorContext(ctx, "backlog not evaluated", "error", err)
		case backlog > h.thresholds.MaxBacklog:
			h.metrics.ObserveWorkerAlert("retry_backlog")
			h.log.ErrorContext(ctx, "worker alert raised",
				"reason", "retry_backlog",
				"backlog", backlog,
				"threshold", h.thresholds.MaxBacklog)
		}
	}
}

// reconcilePass polls the provider for every message awaiting a delivery
// confirmation and persists status changes. Failure statuses with remaining
// retry budget get a resend booked immediately.
func (h ProcessOutboundMessagesCommandHandler) reconcilePass(ctx context.Context) (reconciled, failed int, err error) {
	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	messageRepo := uow.MessageRepository()

	messages, err := messageRepo.GetAllNeedingReconciliation(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, message := range messages {
		raw, statusErr := h.provider.Status(ctx, message.ProviderMessageID())
		if statusErr != nil {
			h.log.WarnContext(ctx, "status poll failed",
				"message_id", message.ID().String(), "error", statusErr)
			failed++
			continue
		}

		status, parseErr := outbound.StatusFromString(raw)
		if parseErr != nil {
			h.log.WarnContext(ctx, "provider returned unknown status",
				"message_id", message.ID().String(), "status", raw)
			failed++
			continue
		}

		changed, reconcileErr := message.ReconcileProviderStatus(status)
		if reconcileErr != nil {
			h.log.WarnContext(ctx, "status not applied",
				"message_id", message.ID().String(), "error", reconcileErr)
			failed++
			continue
		}
		if !changed {
			continue
		}

		if status.IsFailureClass() && !message.IsTerminal() {
			if retryErr := message.ScheduleRetry(h.now(), h.backoffBase); retryErr != nil &&
				!errors.Is(retryErr, outbound.ErrRetriesExhausted) {
				failed++
				continue
			}
		}

		if updateErr := messageRepo.Update(ctx, message); updateErr != nil {
			return reconciled, failed, updateErr
		}
		reconciled++
	}

	return reconciled, failed, uow.Commit(ctx)
}

// resendPass sends every message whose backoff window has elapsed. A send
// failure marks the message failed and records the error; no further retry is
// booked within the cycle, so one broken message cannot retry-storm a run.
// The next reconciliation pass re-schedules it when the provider reports a
// status change and budget remains.
func (h ProcessOutboundMessagesCommandHandler) resendPass(ctx context.Context) (resent, failed int, err error) {
	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	messageRepo := uow.MessageRepository()

	messages, err := messageRepo.GetAllDueForResend(ctx, h.now())
	if err != nil {
		return 0, 0, err
	}

	for _, message := range messages {
		result, sendErr := h.provider.Send(ctx, message.To(), message.Body())
		if sendErr == nil {
			if markErr := message.MarkSent(result.ProviderMessageID); markErr != nil {
				h.log.WarnContext(ctx, "send not recorded",
					"message_id", message.ID().String(), "error", markErr)
				failed++
				continue
			}
			resent++
		} else {
			message.MarkResendFailed(sendErr.Error())
			h.log.WarnContext(ctx, "resend failed",
				"message_id", message.ID().String(),
				"retry_count", message.RetryCount(),
				"error", sendErr)
			failed++
		}

		if updateErr := messageRepo.Update(ctx, message); updateErr != nil {
			return resent, failed, updateErr
		}
	}

	backlog, backlogErr := messageRepo.CountRetryBacklog(ctx)
	if backlogErr == nil {
		h.metrics.SetRetryBacklog(backlog)
	}

	return resent, failed, uow.Commit(ctx)
}

// recordRun persists the cycle outcome in its own transaction so it survives
// a failed cycle.
func (h ProcessOutboundMessagesCommandHandler) recordRun(ctx context.Context, run ports.WorkerRun) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.WorkerRunRepository().Record(ctx, run); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
