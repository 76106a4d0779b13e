package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/errs"
)

// RequestTransitionCommandHandler applies one lifecycle event to an order and
// persists the result with a conditional write on the order version. A version
// conflict means another writer changed the order between load and save; the
// handler reloads and replays the event exactly once before giving up, so a
// courier racing the assignment sweep does not see a spurious failure.
type RequestTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

// NewRequestTransitionCommandHandler creates a handler for lifecycle
// transition requests.
func NewRequestTransitionCommandHandler(
	uowFactory OrderUoWFactory,
	logger *slog.Logger,
) RequestTransitionCommandHandler {
	return RequestTransitionCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle processes the transition request.
// Domain rejections surface as *order.TransitionRejectedError so callers can
// report the precise reason; a terminal or out of sequence event never
// modifies the order.
func (h RequestTransitionCommandHandler) Handle(ctx context.Context, command RequestTransitionCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	err := h.apply(ctx, command)
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		err = h.apply(ctx, command)
	}

	actorAttrs := []any{
		"order_id", command.OrderID().String(),
		"event", command.Event().String(),
		"actor_id", command.ActorID().String(),
		"actor_role", command.ActorRole(),
	}
	var rejection *order.TransitionRejectedError
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "order transition applied", actorAttrs...)
	case errors.As(err, &rejection):
		h.logger.WarnContext(ctx, "order transition rejected",
			append(actorAttrs, "reason", rejection.Reason)...)
	}

	return err
}

func (h RequestTransitionCommandHandler) apply(ctx context.Context, command RequestTransitionCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.Apply(command.Event(), h.now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
