package outbound

import (
	"fmt"

	"kopikurir/internal/pkg/errs"
)

// Status represents the delivery state of an outbound message as reconciled
// against the external provider.
type Status string

const (
	// StatusQueued means the message was created and not yet handed to the provider.
	StatusQueued Status = "queued"
	// StatusSent means the provider accepted the message but has not confirmed delivery.
	StatusSent Status = "sent"
	// StatusDelivered means the provider confirmed delivery. Terminal.
	StatusDelivered Status = "delivered"
	// StatusUndelivered means the provider reported the message could not be delivered.
	StatusUndelivered Status = "undelivered"
	// StatusFailed means the provider rejected the message or a resend attempt errored.
	StatusFailed Status = "failed"
	// StatusRetryScheduled means a resend is booked for NextRetryAt.
	StatusRetryScheduled Status = "retry_scheduled"
)

// IsValid reports whether the status is one of the known message states.
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusSent, StatusDelivered,
		StatusUndelivered, StatusFailed, StatusRetryScheduled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// IsFailureClass reports whether the status counts as a provider failure that
// makes the message a retry candidate.
func (s Status) IsFailureClass() bool {
	return s == StatusFailed || s == StatusUndelivered
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid outbound message status", s))
	}
	return status, nil
}
