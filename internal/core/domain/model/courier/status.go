package courier

import (
	"fmt"

	"kopikurir/internal/pkg/errs"
)

// Status represents the operational state a courier reports through the
// courier app. It is independent of the administrative IsActive suspend
// flag: a suspended courier may still report any operational status.
type Status string

const (
	// StatusAvailable means the courier is on shift with capacity for work.
	StatusAvailable Status = "available"
	// StatusBusy means the courier currently carries at least one active order.
	StatusBusy Status = "busy"
	// StatusOffline means the courier is off shift.
	StatusOffline Status = "offline"
)

// IsValid reports whether the status is one of the known operational states.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOffline:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid courier status", s))
	}
	return status, nil
}
