package commands

import (
	"errors"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/pkg/errs"
	"kopikurir/internal/pkg/guard"
)

var ErrEnqueueMessageCommandIsNotConstructed = errors.New(
	"EnqueueMessageCommand must be created via NewEnqueueMessageCommand constructor",
)

// EnqueueMessageCommand queues one outbound SMS for delivery. The message is
// persisted immediately; the reliability worker and the send path take it
// from there.
type EnqueueMessageCommand struct {
	messageID  kernel.UUID
	provider   string
	to         string
	body       string
	maxRetries int

	guard guard.ConstructorGuard
}

// NewEnqueueMessageCommand creates a validated enqueue request.
func NewEnqueueMessageCommand(
	messageID kernel.UUID,
	provider, to, body string,
	maxRetries int,
) (EnqueueMessageCommand, error) {
	if err := messageID.Validate(); err != nil {
		return EnqueueMessageCommand{}, err
	}
	if to == "" {
		return EnqueueMessageCommand{}, errs.NewValueIsRequiredError("to")
	}
	if body == "" {
		return EnqueueMessageCommand{}, errs.NewValueIsRequiredError("body")
	}
	if maxRetries < 0 {
		return EnqueueMessageCommand{}, errs.NewValueIsInvalidError("maxRetries")
	}

	return EnqueueMessageCommand{
		messageID:  messageID,
		provider:   provider,
		to:         to,
		body:       body,
		maxRetries: maxRetries,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// MessageID returns the message identifier.
func (c *EnqueueMessageCommand) MessageID() kernel.UUID { return c.messageID }

// Provider returns the SMS provider name.
func (c *EnqueueMessageCommand) Provider() string { return c.provider }

// To returns the destination phone number.
func (c *EnqueueMessageCommand) To() string { return c.to }

// Body returns the message text.
func (c *EnqueueMessageCommand) Body() string { return c.body }

// MaxRetries returns the retry budget for the message.
func (c *EnqueueMessageCommand) MaxRetries() int { return c.maxRetries }

// Validate ensures the command was created through the constructor.
func (c *EnqueueMessageCommand) Validate() error {
	return c.guard.Validate(
		ErrEnqueueMessageCommandIsNotConstructed,
	)
}
