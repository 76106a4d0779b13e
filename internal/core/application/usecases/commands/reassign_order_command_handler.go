package commands

import (
	"context"
	"errors"
	"time"
)

var ErrCourierNotSelectable = errors.New("courier cannot receive orders")

// ReassignOrderCommandHandler moves an order to a new courier and rebalances
// both couriers' load counters in one transaction.
type ReassignOrderCommandHandler struct {
	uowFactory AssignUoWFactory
	now        func() time.Time
}

// NewReassignOrderCommandHandler creates a handler for order reassignment.
func NewReassignOrderCommandHandler(uowFactory AssignUoWFactory) ReassignOrderCommandHandler {
	return ReassignOrderCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle processes the reassignment. The previous courier, when there is one,
// gets its active order released; the new courier takes the order. Terminal
// orders are rejected by the aggregate.
func (h ReassignOrderCommandHandler) Handle(ctx context.Context, command ReassignOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	previousCourierID := aggregate.Courier()

	next, err := courierRepo.Get(ctx, command.CourierID())
	if err != nil {
		return err
	}
	if !next.IsSelectable() {
		return ErrCourierNotSelectable
	}

	if err = aggregate.Reassign(command.CourierID(), h.now()); err != nil {
		return err
	}
	next.TakeOrder()

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = courierRepo.Update(ctx, next); err != nil {
		return err
	}

	if previousCourierID != nil && !previousCourierID.IsEqual(command.CourierID()) {
		previous, getErr := courierRepo.Get(ctx, *previousCourierID)
		if getErr != nil {
			return getErr
		}
		previous.ReleaseOrder()
		if err = courierRepo.Update(ctx, previous); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
