package courier

import (
	"errors"
	"strings"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/errs"
	"kopikurir/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrCourierIsNotConstructed is returned when using an improperly
	// initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
	// ErrNameIsRequired is returned when attempting to create a courier
	// without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Courier represents a delivery rider (kurir) in the system.
//
// Two independent flags govern whether a courier may receive work:
//   - Status is the operational state the courier app reports
//     (available, busy, offline)
//   - IsActive is the administrative suspend flag owned by the back office
//
// A courier with IsActive false must never be selected by the assignment
// engine regardless of operational status. ActiveOrders is a derived count
// of orders in active-delivery statuses currently bound to the courier;
// it is loaded from persistence, never maintained in memory.
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the courier's display name
	name string
	// phone is the number notifications go to
	phone string
	// status is the operational state reported by the courier app
	status Status
	// isActive is the administrative suspend flag
	isActive bool
	// activeOrders is the derived count of active deliveries
	activeOrders int

	guard guard.ConstructorGuard
}

// NewCourier creates an active courier that starts offline with no load.
func NewCourier(id kernel.UUID, name string, phone string) (*Courier, error) {
	c := &Courier{
		status:   StatusOffline,
		isActive: true,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}
	c.phone = phone

	return c, nil
}

// RestoreCourier reconstructs a courier from persistent storage, including
// the derived active-order count computed by the repository.
func RestoreCourier(
	id kernel.UUID,
	name string,
	phone string,
	status Status,
	isActive bool,
	activeOrders int,
) (*Courier, error) {
	c := &Courier{
		phone:        phone,
		isActive:     isActive,
		activeOrders: activeOrders,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setStatus(status),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the Courier was created via a constructor.
func (c *Courier) Validate() error {
	if c == nil || c.guard.Validate(ErrCourierIsNotConstructed) != nil {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// IsEqual compares two couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's display name.
func (c *Courier) Name() string { return c.name }

// Phone returns the courier's notification number.
func (c *Courier) Phone() string { return c.phone }

// Status returns the operational state.
func (c *Courier) Status() Status { return c.status }

// IsActive returns the administrative suspend flag.
func (c *Courier) IsActive() bool { return c.isActive }

// ActiveOrders returns the derived count of active deliveries.
func (c *Courier) ActiveOrders() int { return c.activeOrders }

// IsSelectable reports whether the assignment engine may consider this
// courier: administratively active and not offline.
func (c *Courier) IsSelectable() bool {
	return c.isActive && c.status != StatusOffline
}

// TakeOrder records that an order was bound to this courier: the load count
// rises, and an available courier flips to busy.
func (c *Courier) TakeOrder() {
	c.activeOrders++
	if c.status == StatusAvailable {
		c.status = StatusBusy
	}
}

// ReleaseOrder records that an active order left the courier (delivered or
// cancelled). A busy courier with no remaining load becomes available.
func (c *Courier) ReleaseOrder() {
	if c.activeOrders > 0 {
		c.activeOrders--
	}
	if c.status == StatusBusy && c.activeOrders == 0 {
		c.status = StatusAvailable
	}
}

// SetStatus applies an operational status reported by the courier app.
func (c *Courier) SetStatus(status Status) error {
	return c.setStatus(status)
}

// Suspend clears the administrative active flag. The courier keeps any work
// already assigned but is invisible to the assignment engine.
func (c *Courier) Suspend() {
	c.isActive = false
}

// Reinstate restores the administrative active flag.
func (c *Courier) Reinstate() {
	c.isActive = true
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setStatus(status Status) error {
	if !status.IsValid() {
		return errs.NewValueIsInvalidError("status")
	}
	c.status = status
	return nil
}
