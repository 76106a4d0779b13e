package commands

import (
	"errors"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/guard"
)

var ErrReassignOrderCommandIsNotConstructed = errors.New(
	"ReassignOrderCommand must be created via NewReassignOrderCommand constructor",
)

// ReassignOrderCommand moves an active order to a different courier. This is
// a back office operation used when the assigned courier becomes unavailable
// mid delivery.
type ReassignOrderCommand struct {
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReassignOrderCommand creates a validated reassignment request.
func NewReassignOrderCommand(orderID, courierID kernel.UUID) (ReassignOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return ReassignOrderCommand{}, err
	}

	return ReassignOrderCommand{
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the target order identifier.
func (c *ReassignOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CourierID returns the courier receiving the order.
func (c *ReassignOrderCommand) CourierID() kernel.UUID { return c.courierID }

// Validate ensures the command was created through the constructor.
func (c *ReassignOrderCommand) Validate() error {
	return c.guard.Validate(
		ErrReassignOrderCommandIsNotConstructed,
	)
}
