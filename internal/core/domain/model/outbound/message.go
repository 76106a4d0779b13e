package outbound

import (
	"errors"
	"strings"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/errs"
	"kopikurir/internal/pkg/guard"
)

// Domain errors for outbound message operations.
var (
	// ErrMessageIsNotConstructed is returned when using an improperly
	// initialized Message.
	ErrMessageIsNotConstructed = errors.New(
		"Message must be created via NewMessage or RestoreMessage")
	// ErrMessageIsTerminal is returned when mutating a message that already
	// reached a terminal state.
	ErrMessageIsTerminal = errors.New("message is in a terminal state")
	// ErrRetriesExhausted is returned when scheduling a retry past MaxRetries.
	ErrRetriesExhausted = errors.New("retry budget exhausted")
)

// DefaultBackoffBase is the base delay for retry backoff: the first retry
// waits one base, the second two, then four, doubling up to the retry budget.
const DefaultBackoffBase = 5 * time.Minute

// BackoffDelay computes the exponential backoff before retry attempt
// retryCount: 2^retryCount * base. The delay strictly increases with the
// retry count.
func BackoffDelay(retryCount int, base time.Duration) time.Duration {
	return time.Duration(1<<uint(retryCount)) * base //nolint:gosec // retryCount is bounded by MaxRetries
}

// Message is an outbound notification (SMS to a courier or customer) driven
// to a terminal state by the reliability worker despite transient provider
// failures.
//
// Invariants:
//   - retryCount never exceeds maxRetries
//   - once delivered, or failed with the retry budget exhausted, the message
//     is immutable
//   - after creation only the reliability worker mutates the message
type Message struct {
	id       kernel.UUID
	provider string
	to       string
	body     string
	status   Status
	// providerMessageID is assigned by the provider on accept; empty until then
	providerMessageID string
	retryCount        int
	maxRetries        int
	nextRetryAt       *time.Time
	// lastError records the most recent provider failure for the audit trail
	lastError string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewMessage creates a queued message awaiting its first send.
func NewMessage(
	id kernel.UUID,
	provider string,
	to string,
	body string,
	maxRetries int,
	createdAt time.Time,
) (*Message, error) {
	m := &Message{
		status:    StatusQueued,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setProvider(provider),
		m.setTo(to),
		m.setBody(body),
		m.setMaxRetries(maxRetries),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RestoreMessage reconstructs a message from persistent storage.
func RestoreMessage(
	id kernel.UUID,
	provider, to, body string,
	status Status,
	providerMessageID string,
	retryCount, maxRetries int,
	nextRetryAt *time.Time,
	lastError string,
	createdAt time.Time,
) (*Message, error) {
	if !status.IsValid() {
		return nil, errs.NewValueIsInvalidError("status")
	}
	if retryCount > maxRetries {
		return nil, errs.NewValueIsOutOfRangeError("retryCount", retryCount, 0, maxRetries)
	}

	m := &Message{
		status:            status,
		providerMessageID: providerMessageID,
		retryCount:        retryCount,
		nextRetryAt:       nextRetryAt,
		lastError:         lastError,
		createdAt:         createdAt,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		m.setID(id),
		m.setProvider(provider),
		m.setTo(to),
		m.setBody(body),
		m.setMaxRetries(maxRetries),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate ensures the Message was created via a constructor.
func (m *Message) Validate() error {
	if m == nil || m.guard.Validate(ErrMessageIsNotConstructed) != nil {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID returns the message identifier.
func (m *Message) ID() kernel.UUID { return m.id }

// Provider returns the delivery-provider name (e.g. the SMS gateway).
func (m *Message) Provider() string { return m.provider }

// To returns the recipient address.
func (m *Message) To() string { return m.to }

// Body returns the originally stored payload, reused verbatim on resends.
func (m *Message) Body() string { return m.body }

// Status returns the reconciled delivery status.
func (m *Message) Status() Status { return m.status }

// ProviderMessageID returns the provider-assigned id, empty until accepted.
func (m *Message) ProviderMessageID() string { return m.providerMessageID }

// RetryCount returns how many retries have been scheduled so far.
func (m *Message) RetryCount() int { return m.retryCount }

// MaxRetries returns the retry budget.
func (m *Message) MaxRetries() int { return m.maxRetries }

// NextRetryAt returns when the scheduled resend is due, or nil.
func (m *Message) NextRetryAt() *time.Time { return m.nextRetryAt }

// LastError returns the most recent provider failure text.
func (m *Message) LastError() string { return m.lastError }

// CreatedAt returns when the message was enqueued.
func (m *Message) CreatedAt() time.Time { return m.createdAt }

// IsTerminal reports whether the message may no longer change: delivered, or
// in a failure class with the retry budget exhausted.
func (m *Message) IsTerminal() bool {
	if m.status == StatusDelivered {
		return true
	}
	return m.status.IsFailureClass() && m.retryCount >= m.maxRetries
}

// NeedsReconciliation reports whether the worker should poll the provider:
// the provider assigned an id and the message is not terminal and not
// already waiting on a scheduled resend.
func (m *Message) NeedsReconciliation() bool {
	return m.providerMessageID != "" &&
		!m.IsTerminal() &&
		m.status != StatusRetryScheduled
}

// IsDueForResend reports whether a scheduled resend has come due.
func (m *Message) IsDueForResend(now time.Time) bool {
	return m.status == StatusRetryScheduled &&
		m.nextRetryAt != nil &&
		!m.nextRetryAt.After(now)
}

// MarkSent records the provider accepting the message (first send or
// resend). The scheduled resend slot, if any, is consumed.
func (m *Message) MarkSent(providerMessageID string) error {
	if m.IsTerminal() {
		return ErrMessageIsTerminal
	}
	if strings.TrimSpace(providerMessageID) == "" {
		return errs.NewValueIsRequiredError("providerMessageID")
	}

	m.status = StatusSent
	m.providerMessageID = providerMessageID
	m.nextRetryAt = nil
	m.lastError = ""
	return nil
}

// ReconcileProviderStatus records the status reported by the provider during
// a reconciliation poll. Returns true when the status actually changed.
func (m *Message) ReconcileProviderStatus(status Status) (bool, error) {
	if m.IsTerminal() {
		return false, ErrMessageIsTerminal
	}
	if !status.IsValid() {
		return false, errs.NewValueIsInvalidError("status")
	}
	if m.status == status {
		return false, nil
	}

	m.status = status
	return true, nil
}

// ScheduleRetry books a resend after the exponential backoff delay.
// Requires a failure-class status and remaining retry budget; a message at
// its budget stays failed permanently.
func (m *Message) ScheduleRetry(now time.Time, base time.Duration) error {
	if !m.status.IsFailureClass() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New("only failed or undelivered messages are retried"))
	}
	if m.retryCount >= m.maxRetries {
		return ErrRetriesExhausted
	}

	due := now.Add(BackoffDelay(m.retryCount, base))
	m.status = StatusRetryScheduled
	m.nextRetryAt = &due
	m.retryCount++
	return nil
}

// MarkResendFailed records a failed send attempt. The message ends the cycle
// failed with no retry booked; a later reconciliation pass may schedule one
// when the provider reports a status change and budget remains.
func (m *Message) MarkResendFailed(cause string) {
	m.status = StatusFailed
	m.nextRetryAt = nil
	m.lastError = cause
}

func (m *Message) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Message) setProvider(provider string) error {
	if strings.TrimSpace(provider) == "" {
		return errs.NewValueIsRequiredError("provider")
	}
	m.provider = provider
	return nil
}

func (m *Message) setTo(to string) error {
	if strings.TrimSpace(to) == "" {
		return errs.NewValueIsRequiredError("to")
	}
	m.to = to
	return nil
}

func (m *Message) setBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return errs.NewValueIsRequiredError("body")
	}
	m.body = body
	return nil
}

func (m *Message) setMaxRetries(maxRetries int) error {
	if maxRetries < 0 {
		return errs.NewValueIsOutOfRangeError("maxRetries", maxRetries, 0, 10)
	}
	m.maxRetries = maxRetries
	return nil
}
