package order

import (
	"errors"
	"fmt"

	"kopikurir/internal/pkg/errs"
)

// Event identifies a requested transition on an order. Courier sub-events
// (arrive, pickup, complete) gate the delivery flow; the remaining events
// advance the kitchen-side lifecycle or cancel the order.
type Event string

const (
	// EventConfirm accepts a pending order.
	EventConfirm Event = "confirm"
	// EventStartProcessing moves a confirmed order into the kitchen.
	EventStartProcessing Event = "start_processing"
	// EventMarkReady marks a processing order as packed and waiting.
	EventMarkReady Event = "mark_ready"
	// EventArrive records the courier arriving at the store. Idempotent:
	// a repeat arrival while already arrived is a no-op, not an error.
	EventArrive Event = "arrive"
	// EventPickup records the courier taking the order and starts delivering.
	EventPickup Event = "pickup"
	// EventComplete records the drop-off and completes the order.
	EventComplete Event = "complete"
	// EventCancel aborts the order from any non-terminal state.
	EventCancel Event = "cancel"
)

// IsValid reports whether the event is one of the known transition events.
func (e Event) IsValid() bool {
	switch e {
	case EventConfirm, EventStartProcessing, EventMarkReady,
		EventArrive, EventPickup, EventComplete, EventCancel:
		return true
	default:
		return false
	}
}

func (e Event) String() string {
	return string(e)
}

// EventFromString parses a wire name back into an Event.
func EventFromString(s string) (Event, error) {
	e := Event(s)
	if !e.IsValid() {
		return "", errs.NewValueIsInvalidErrorWithCause("event",
			fmt.Errorf("%q is not a valid transition event", s))
	}
	return e, nil
}

// ErrTransitionRejected is the unwrap target for all precondition rejections.
var ErrTransitionRejected = errors.New("transition rejected")

// TransitionRejectedError reports that an event's precondition is not met by
// the order's current state. It is a normal business outcome, not a fault:
// callers use Reason to drive UI state (which action button to show) and must
// not treat it as an infrastructure failure.
type TransitionRejectedError struct {
	Event  Event
	Reason string
}

// NewTransitionRejectedError creates a rejection for the given event with a
// human-readable reason.
func NewTransitionRejectedError(event Event, reason string) *TransitionRejectedError {
	return &TransitionRejectedError{Event: event, Reason: reason}
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrTransitionRejected, e.Event, e.Reason)
}

func (e *TransitionRejectedError) Unwrap() error {
	return ErrTransitionRejected
}

// Actions reports which courier actions are currently permitted on an order.
// It is the pure counterpart of Apply: both are computed from the same
// precondition predicates and can never disagree.
type Actions struct {
	Arrive   bool `json:"arrive"`
	Pickup   bool `json:"pickup"`
	Complete bool `json:"complete"`
}

// AvailableActions evaluates the courier-event precondition table against the
// current order state without side effects.
//
// Arrive requires an assigned courier, a status of processing or ready, and
// no prior arrival. Pickup requires arrival to be recorded, no prior pickup,
// and a status of ready or delivering. Complete requires a recorded pickup
// and a delivering status.
func (o *Order) AvailableActions() Actions {
	return Actions{
		Arrive:   o.checkArrive() == nil && o.kurirArrivedAt == nil,
		Pickup:   o.checkPickup() == nil,
		Complete: o.checkComplete() == nil,
	}
}

// checkArrive validates the arrive precondition. A nil result with
// kurirArrivedAt already set means the event is an idempotent no-op.
func (o *Order) checkArrive() *TransitionRejectedError {
	if o.courierID == nil {
		return NewTransitionRejectedError(EventArrive, "no courier assigned to order")
	}
	if o.status != Processing && o.status != Ready {
		return NewTransitionRejectedError(EventArrive,
			fmt.Sprintf("order is %s, arrival is recorded while processing or ready", o.status))
	}
	return nil
}

// checkPickup validates the pickup precondition.
func (o *Order) checkPickup() *TransitionRejectedError {
	if o.kurirArrivedAt == nil {
		return NewTransitionRejectedError(EventPickup, "courier has not arrived at the store")
	}
	if o.pickupTime != nil {
		return NewTransitionRejectedError(EventPickup, "order already picked up")
	}
	if o.status != Ready && o.status != Delivering {
		return NewTransitionRejectedError(EventPickup,
			fmt.Sprintf("order is %s, pickup is recorded while ready or delivering", o.status))
	}
	return nil
}

// checkComplete validates the delivered precondition.
func (o *Order) checkComplete() *TransitionRejectedError {
	if o.pickupTime == nil {
		return NewTransitionRejectedError(EventComplete, "order not yet picked up")
	}
	if o.status != Delivering {
		return NewTransitionRejectedError(EventComplete,
			fmt.Sprintf("order is %s, delivery is recorded while delivering", o.status))
	}
	return nil
}

// checkForward validates a plain forward status advance.
func (o *Order) checkForward(event Event, target Status) *TransitionRejectedError {
	if !o.status.CanAdvanceTo(target) {
		return NewTransitionRejectedError(event,
			fmt.Sprintf("order is %s, cannot move to %s", o.status, target))
	}
	return nil
}
