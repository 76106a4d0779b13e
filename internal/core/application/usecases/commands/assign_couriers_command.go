package commands

import (
	"errors"

	"kopikurir/internal/pkg/guard"
)

var ErrAssignCouriersCommandIsNotConstructed = errors.New(
	"AssignCouriersCommand must be created via NewAssignCouriersCommand constructor",
)

// AssignCouriersCommand triggers one assignment sweep: every delivery order
// waiting for a courier is matched against the currently selectable couriers.
// This is a parameterless command issued by the scheduler and by back office.
type AssignCouriersCommand struct {
	guard guard.ConstructorGuard
}

// NewAssignCouriersCommand creates a new command to trigger an assignment
// sweep.
func NewAssignCouriersCommand() AssignCouriersCommand {
	return AssignCouriersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *AssignCouriersCommand) Validate() error {
	return c.guard.Validate(
		ErrAssignCouriersCommandIsNotConstructed,
	)
}
