package order

import (
	"fmt"

	"kopikurir/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct delivery workflow.
//
// State transitions (delivery flow):
//
//	Pending -> Confirmed -> Processing -> Ready -> Delivering -> Completed
//
// Cancelled is reachable from every non-terminal state. Completed and
// Cancelled are terminal: no further transition is permitted.
//
// Status advances monotonically forward; a later state never moves back
// to an earlier one.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned at checkout.
	Pending

	// Confirmed indicates the shop accepted the order.
	// Delivery orders become eligible for courier assignment here.
	Confirmed

	// Processing indicates the kitchen is preparing the order.
	Processing

	// Ready indicates the order is packed and waiting for handover.
	Ready

	// Delivering indicates the courier picked the order up and is en route.
	Delivering

	// Completed indicates the order was delivered. Terminal.
	Completed

	// Cancelled indicates the order was aborted before completion. Terminal.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		Processing: "processing",
		Ready:      "ready",
		Delivering: "delivering",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		Confirmed:  "confirmed",
		Processing: "processing",
		Ready:      "ready",
		Delivering: "delivering",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other out-of-table values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase wire name of the status.
// Implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsActiveDelivery reports whether the order still counts toward a courier's
// active load: accepted work that has not reached a terminal state.
func (s Status) IsActiveDelivery() bool {
	switch s { //nolint:exhaustive // remaining statuses are inactive
	case Confirmed, Processing, Ready, Delivering:
		return true
	default:
		return false
	}
}

// IsAssignable reports whether an order in this status may be bound to a
// courier by the assignment engine.
func (s Status) IsAssignable() bool {
	return s.IsActiveDelivery()
}

// next returns the immediate forward successor in the delivery flow,
// or Unknown when the status has no forward successor.
func (s Status) next() Status {
	switch s { //nolint:exhaustive // terminal statuses have no successor
	case Pending:
		return Confirmed
	case Confirmed:
		return Processing
	case Processing:
		return Ready
	case Ready:
		return Delivering
	case Delivering:
		return Completed
	default:
		return Unknown
	}
}

// CanAdvanceTo reports whether moving from s to target is a legal forward
// step. Cancellation is handled separately because it is reachable from any
// non-terminal state.
func (s Status) CanAdvanceTo(target Status) bool {
	if target == Cancelled {
		return !s.IsTerminal()
	}
	return s.next() == target
}
