package commands

import (
	"errors"

	"kopikurir/internal/pkg/guard"
)

var ErrProcessOutboundMessagesCommandIsNotConstructed = errors.New(
	"ProcessOutboundMessagesCommand must be created via NewProcessOutboundMessagesCommand constructor",
)

// ProcessOutboundMessagesCommand triggers one reliability worker cycle:
// reconcile provider delivery statuses, then resend messages whose backoff
// has elapsed. The cycle runs under an advisory lock so only one process
// works the queue at a time.
type ProcessOutboundMessagesCommand struct {
	guard guard.ConstructorGuard
}

// NewProcessOutboundMessagesCommand creates a new command to trigger a worker
// cycle.
func NewProcessOutboundMessagesCommand() ProcessOutboundMessagesCommand {
	return ProcessOutboundMessagesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ProcessOutboundMessagesCommand) Validate() error {
	return c.guard.Validate(
		ErrProcessOutboundMessagesCommandIsNotConstructed,
	)
}
