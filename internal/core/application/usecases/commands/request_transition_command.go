package commands

import (
	"errors"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/errs"
	"kopikurir/internal/pkg/guard"
)

var ErrRequestTransitionCommandIsNotConstructed = errors.New(
	"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
)

// Roles allowed to request a lifecycle transition. Courier apps issue arrive,
// pickup and complete; back office issues the remaining events.
const (
	ActorRoleCourier = "courier"
	ActorRoleAdmin   = "admin"
)

// RequestTransitionCommand asks for one lifecycle event to be applied to an
// order on behalf of a known actor.
type RequestTransitionCommand struct {
	orderID   kernel.UUID
	event     order.Event
	actorID   kernel.UUID
	actorRole string

	guard guard.ConstructorGuard
}

// NewRequestTransitionCommand creates a validated transition request.
func NewRequestTransitionCommand(
	orderID kernel.UUID,
	event order.Event,
	actorID kernel.UUID,
	actorRole string,
) (RequestTransitionCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RequestTransitionCommand{}, err
	}
	if !event.IsValid() {
		return RequestTransitionCommand{}, errs.NewValueIsInvalidError("event")
	}
	if err := actorID.Validate(); err != nil {
		return RequestTransitionCommand{}, errs.NewValueIsRequiredError("actorID")
	}
	if actorRole != ActorRoleCourier && actorRole != ActorRoleAdmin {
		return RequestTransitionCommand{}, errs.NewValueIsInvalidError("actorRole")
	}

	return RequestTransitionCommand{
		orderID:   orderID,
		event:     event,
		actorID:   actorID,
		actorRole: actorRole,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the target order identifier.
func (c *RequestTransitionCommand) OrderID() kernel.UUID { return c.orderID }

// Event returns the requested lifecycle event.
func (c *RequestTransitionCommand) Event() order.Event { return c.event }

// ActorID returns the identity of the courier or admin behind the request.
func (c *RequestTransitionCommand) ActorID() kernel.UUID { return c.actorID }

// ActorRole returns the role the actor acted under.
func (c *RequestTransitionCommand) ActorRole() string { return c.actorRole }

// Validate ensures the command was created through the constructor.
func (c *RequestTransitionCommand) Validate() error {
	return c.guard.Validate(
		ErrRequestTransitionCommandIsNotConstructed,
	)
}
