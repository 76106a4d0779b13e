package commands

import (
	"context"
	"errors"
	"time"

	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/services"
)

var ErrNoSelectableCouriers = errors.New("no selectable couriers")

// AssignmentMetrics receives the number of orders still waiting for a courier
// after a sweep.
type AssignmentMetrics interface {
	SetUnassignedOrders(count int)
}

// AssignCouriersCommandHandler orchestrates one assignment sweep. It loads
// every assignable order and every selectable courier, lets the selector bind
// them, and persists both sides within a single transaction. The selector is
// shared across sweeps so its round robin cursor keeps rotating.
type AssignCouriersCommandHandler struct {
	uowFactory AssignUoWFactory
	selector   *services.CourierSelector
	metrics    AssignmentMetrics
	now        func() time.Time
}

// NewAssignCouriersCommandHandler creates a handler for assignment sweeps.
func NewAssignCouriersCommandHandler(
	uowFactory AssignUoWFactory,
	selector *services.CourierSelector,
	metrics AssignmentMetrics,
) AssignCouriersCommandHandler {
	return AssignCouriersCommandHandler{
		uowFactory: uowFactory,
		selector:   selector,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Handle processes one sweep. A sweep with nothing to assign is a successful
// no-op. When orders are waiting but no courier is selectable the handler
// reports the backlog and returns ErrNoSelectableCouriers so the caller can
// log the condition.
func (h AssignCouriersCommandHandler) Handle(ctx context.Context, command AssignCouriersCommand) error {
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

	orders, err := ordersRepo.GetAllAssignable(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		h.metrics.SetUnassignedOrders(0)
		return nil
	}

	couriers, err := courierRepo.GetAllSelectable(ctx)
	if err != nil {
		return err
	}

	assigned, err := h.selector.AssignAll(orders, couriers, h.now())
	if errors.Is(err, services.ErrNoCourierAvailable) {
		h.metrics.SetUnassignedOrders(len(orders))
		return ErrNoSelectableCouriers
	}
	if err != nil {
		return err
	}

	touched := make(map[string]*courier.Courier)
	for _, aggregate := range assigned {
		if err = ordersRepo.Update(ctx, aggregate); err != nil {
			return err
		}
		for _, c := range couriers {
			if aggregate.Courier() != nil && aggregate.Courier().IsEqual(c.ID()) {
				touched[c.ID().String()] = c
			}
		}
	}
	for _, c := range touched {
		if err = courierRepo.Update(ctx, c); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.SetUnassignedOrders(len(orders) - len(assigned))

	return nil
}
