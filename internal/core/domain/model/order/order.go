package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/errs"
	"kopikurir/internal/pkg/guard"
)

// DeliveryType distinguishes courier deliveries from customer pickups.
type DeliveryType string

const (
	// DeliveryTypeDelivery orders are brought to the customer by a courier.
	DeliveryTypeDelivery DeliveryType = "delivery"
	// DeliveryTypePickup orders are collected at the counter; the courier
	// flow never touches them.
	DeliveryTypePickup DeliveryType = "pickup"
)

// IsValid reports whether the delivery type is one of the known values.
func (d DeliveryType) IsValid() bool {
	return d == DeliveryTypeDelivery || d == DeliveryTypePickup
}

func (d DeliveryType) String() string {
	return string(d)
}

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	// ErrOrderAlreadyAssigned is returned when the assignment engine touches
	// an order that is already bound to a courier.
	ErrOrderAlreadyAssigned = errors.New("order is already assigned to a courier")
	// ErrDestinationIsRequired is returned when a delivery order is missing
	// destination coordinates.
	ErrDestinationIsRequired = errs.NewValueIsRequiredError("destination")
)

// Order is the aggregate root of the delivery orchestration subsystem.
// It owns the order status, the courier binding, and the courier-interaction
// timestamps that gate transitions.
//
// Invariants:
//   - status transitions follow the table in Status and the event
//     preconditions in events.go; terminal orders are immutable
//   - courierID is written exactly once by the assignment engine
//     (Reassign is the explicit administrative exception)
//   - a delivery order must carry destination coordinates before it becomes
//     eligible for assignment
//   - version increments on every successful mutation, giving the
//     persistence layer its conditional-update predicate
type Order struct {
	// id is the surrogate identifier used for persistence and streams
	id kernel.UUID

	// orderNumber is the customer-facing identity, e.g. "KK-20250817-0042"
	orderNumber string

	// status is the current lifecycle state
	status Status

	// deliveryType separates courier deliveries from counter pickups
	deliveryType DeliveryType

	// courierID is the assigned courier (nil while unassigned)
	courierID *kernel.UUID

	// assignedAt records when the assignment engine bound the courier
	assignedAt *time.Time

	// kurirArrivedAt records the courier arriving at the store
	kurirArrivedAt *time.Time

	// pickupTime records the courier taking the order
	pickupTime *time.Time

	// deliveryTime records the drop-off at the customer
	deliveryTime *time.Time

	// destination is where a delivery order goes (nil for pickups)
	destination *kernel.GeoPoint

	// paymentMethod and paymentStatus are owned by the payment collaborator;
	// the state machine carries but never interprets them
	paymentMethod string
	paymentStatus string

	// version supports optimistic conditional updates
	version int

	guard guard.ConstructorGuard
}

// NewOrder creates a Pending order as produced by checkout.
// Delivery orders must carry a destination; pickups must not require one.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	deliveryType DeliveryType,
	destination *kernel.GeoPoint,
	paymentMethod string,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentMethod: paymentMethod,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setDeliveryType(deliveryType),
		o.setDestination(deliveryType, destination),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order aggregate from persistent storage,
// preserving its full lifecycle state. The restored order behaves identically
// to one mutated through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	status Status,
	deliveryType DeliveryType,
	courierID *kernel.UUID,
	assignedAt, kurirArrivedAt, pickupTime, deliveryTime *time.Time,
	destination *kernel.GeoPoint,
	paymentMethod, paymentStatus string,
	version int,
) (*Order, error) {
	o := &Order{
		courierID:      courierID,
		assignedAt:     assignedAt,
		kurirArrivedAt: kurirArrivedAt,
		pickupTime:     pickupTime,
		deliveryTime:   deliveryTime,
		paymentMethod:  paymentMethod,
		paymentStatus:  paymentStatus,
		version:        version,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setStatus(status),
		o.setDeliveryType(deliveryType),
		o.setDestination(deliveryType, destination),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created via a constructor.
func (o *Order) Validate() error {
	if o == nil || o.guard.Validate(ErrOrderIsNotConstructed) != nil {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's surrogate identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// OrderNumber returns the customer-facing order number.
func (o *Order) OrderNumber() string { return o.orderNumber }

// Status returns the current lifecycle state.
func (o *Order) Status() Status { return o.status }

// DeliveryType returns the order's delivery type.
func (o *Order) DeliveryType() DeliveryType { return o.deliveryType }

// Courier returns the assigned courier's ID, or nil while unassigned.
func (o *Order) Courier() *kernel.UUID { return o.courierID }

// AssignedAt returns when the courier was bound, or nil.
func (o *Order) AssignedAt() *time.Time { return o.assignedAt }

// KurirArrivedAt returns when the courier arrived at the store, or nil.
func (o *Order) KurirArrivedAt() *time.Time { return o.kurirArrivedAt }

// PickupTime returns when the courier took the order, or nil.
func (o *Order) PickupTime() *time.Time { return o.pickupTime }

// DeliveryTime returns when the order was dropped off, or nil.
func (o *Order) DeliveryTime() *time.Time { return o.deliveryTime }

// Destination returns the delivery coordinates, or nil for pickups.
func (o *Order) Destination() *kernel.GeoPoint { return o.destination }

// PaymentMethod returns the payment method recorded at checkout.
func (o *Order) PaymentMethod() string { return o.paymentMethod }

// PaymentStatus returns the payment status written by the payment collaborator.
func (o *Order) PaymentStatus() string { return o.paymentStatus }

// Version returns the optimistic-concurrency version.
func (o *Order) Version() int { return o.version }

// IsAssignable reports whether the assignment engine may bind a courier:
// a delivery order with destination coordinates, in an assignable status,
// and without a courier yet.
func (o *Order) IsAssignable() bool {
	return o.deliveryType == DeliveryTypeDelivery &&
		o.destination != nil &&
		o.courierID == nil &&
		o.status.IsAssignable()
}

// Assign binds the order to a courier. Only the assignment engine calls
// this; an order already bound is never reassigned through it.
func (o *Order) Assign(courierID kernel.UUID, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.courierID != nil {
		return ErrOrderAlreadyAssigned
	}
	if !o.IsAssignable() {
		if o.deliveryType != DeliveryTypeDelivery {
			return errs.NewValueIsInvalidErrorWithCause("deliveryType",
				fmt.Errorf("%s orders are not assigned to couriers", o.deliveryType))
		}
		if o.destination == nil {
			return ErrDestinationIsRequired
		}
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not an assignable status", o.status))
	}

	o.courierID = &courierID
	o.assignedAt = &at
	o.version++
	return nil
}

// Reassign rebinds the order to a different courier. This is the explicit
// administrative override path, outside the assignment engine.
func (o *Order) Reassign(courierID kernel.UUID, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s orders cannot be reassigned", o.status))
	}

	o.courierID = &courierID
	o.assignedAt = &at
	// A fresh courier has not arrived or picked up; the handover clock restarts.
	o.kurirArrivedAt = nil
	o.pickupTime = nil
	o.version++
	return nil
}

// Apply executes a transition event against the precondition table.
// On success the status and gating timestamps are updated and the version is
// incremented. Precondition failures return a *TransitionRejectedError; they
// are expected business outcomes, never infrastructure faults.
//
// Apply and AvailableActions evaluate the same predicates, so an action
// reported as available is always accepted and vice versa.
func (o *Order) Apply(event Event, now time.Time) error {
	if !event.IsValid() {
		return errs.NewValueIsInvalidErrorWithCause("event",
			fmt.Errorf("%q is not a valid transition event", event))
	}
	if o.status.IsTerminal() {
		return NewTransitionRejectedError(event,
			fmt.Sprintf("order is %s and can no longer change", o.status))
	}

	switch event {
	case EventConfirm:
		if rej := o.checkForward(event, Confirmed); rej != nil {
			return rej
		}
		o.status = Confirmed

	case EventStartProcessing:
		if rej := o.checkForward(event, Processing); rej != nil {
			return rej
		}
		o.status = Processing

	case EventMarkReady:
		if rej := o.checkForward(event, Ready); rej != nil {
			return rej
		}
		o.status = Ready

	case EventArrive:
		if rej := o.checkArrive(); rej != nil {
			return rej
		}
		if o.kurirArrivedAt != nil {
			return nil // repeat arrival is a no-op
		}
		o.kurirArrivedAt = &now

	case EventPickup:
		if rej := o.checkPickup(); rej != nil {
			return rej
		}
		o.pickupTime = &now
		if o.status != Delivering {
			o.status = Delivering
		}

	case EventComplete:
		if rej := o.checkComplete(); rej != nil {
			return rej
		}
		o.deliveryTime = &now
		o.status = Completed

	case EventCancel:
		o.status = Cancelled
	}

	o.version++
	return nil
}

// MarkPaymentStatus records the payment collaborator's verdict. The state
// machine stores it verbatim; it never gates transitions.
func (o *Order) MarkPaymentStatus(status string) {
	o.paymentStatus = status
	o.version++
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setDeliveryType(deliveryType DeliveryType) error {
	if !deliveryType.IsValid() {
		return errs.NewValueIsInvalidErrorWithCause("deliveryType",
			fmt.Errorf("%q is not a valid delivery type", deliveryType))
	}
	o.deliveryType = deliveryType
	return nil
}

func (o *Order) setDestination(deliveryType DeliveryType, destination *kernel.GeoPoint) error {
	if destination == nil {
		if deliveryType == DeliveryTypeDelivery {
			return ErrDestinationIsRequired
		}
		return nil
	}
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}
