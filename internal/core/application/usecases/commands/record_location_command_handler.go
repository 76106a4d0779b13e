package commands

import (
	"context"

	"kopikurir/internal/core/domain/model/tracking"
)

// RecordLocationCommandHandler stores the latest position of a courier.
// The courier must exist; samples are upserted so storage keeps exactly one
// row per courier.
type RecordLocationCommandHandler struct {
	uowFactory TrackingUoWFactory
}

// NewRecordLocationCommandHandler creates a handler for courier location
// pings.
func NewRecordLocationCommandHandler(uowFactory TrackingUoWFactory) RecordLocationCommandHandler {
	return RecordLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one location ping.
func (h RecordLocationCommandHandler) Handle(ctx context.Context, command RecordLocationCommand) error {
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

	if _, err := uow.CourierRepository().Get(ctx, command.CourierID()); err != nil {
		return err
	}

	sample, err := tracking.NewLocationSample(
		command.CourierID(),
		command.Point(),
		command.Accuracy(),
		command.Speed(),
		command.PingedAt(),
	)
	if err != nil {
		return err
	}

	if err = uow.LocationRepository().Upsert(ctx, &sample); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
