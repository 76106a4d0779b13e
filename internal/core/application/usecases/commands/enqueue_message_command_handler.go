package commands

import (
	"context"
	"errors"
	"time"

	"kopikurir/internal/core/domain/model/outbound"
	"kopikurir/internal/core/ports"
)

// EnqueueMessageCommandHandler persists a queued message and attempts the
// first send inline. A failed first send is not an error for the caller: the
// message stays queued for retry and the reliability worker picks it up.
type EnqueueMessageCommandHandler struct {
	uowFactory MessageUoWFactory
	provider   ports.SMSProvider
	now        func() time.Time
}

// NewEnqueueMessageCommandHandler creates a handler for outbound message
// enqueue requests.
func NewEnqueueMessageCommandHandler(
	uowFactory MessageUoWFactory,
	provider ports.SMSProvider,
) EnqueueMessageCommandHandler {
	return EnqueueMessageCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		now:        time.Now,
	}
}

// Handle enqueues the message and tries to send it once. The provider call
// happens before the transaction opens, so a slow SMS gateway never holds a
// database connection hostage.
func (h EnqueueMessageCommandHandler) Handle(ctx context.Context, command EnqueueMessageCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	message, err := outbound.NewMessage(
		command.MessageID(),
		command.Provider(),
		command.To(),
		command.Body(),
		command.MaxRetries(),
		h.now(),
	)
	if err != nil {
		return err
	}

	if result, sendErr := h.provider.Send(ctx, message.To(), message.Body()); sendErr == nil {
		if err = message.MarkSent(result.ProviderMessageID); err != nil {
			return err
		}
	} else {
		message.MarkResendFailed(sendErr.Error())
		if retryErr := message.ScheduleRetry(h.now(), outbound.DefaultBackoffBase); retryErr != nil &&
			!errors.Is(retryErr, outbound.ErrRetriesExhausted) {
			return retryErr
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.MessageRepository().Add(ctx, message); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
