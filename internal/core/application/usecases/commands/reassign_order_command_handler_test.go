package commands_test

import (
	"testing"
	"time"

	"kopikurir/internal/core/application/usecases/commands"
	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reassignableOrder(t *testing.T, courierID kernel.UUID) *order.Order {
	t.Helper()
	dest, err := kernel.NewGeoPoint(-6.2, 106.8)
	require.NoError(t, err)
	now := time.Now()
	arrived := now.Add(-10 * time.Minute)
	o, err := order.RestoreOrder(
		kernel.NewUUID(), "KK-0100", order.Ready, order.DeliveryTypeDelivery,
		&courierID, &now, &arrived, nil, nil, &dest, "cash", "paid", 3)
	require.NoError(t, err)
	return o
}

func TestReassignOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	previous, err := courier.RestoreCourier(
		kernel.NewUUID(), "kurir lama", "", courier.StatusBusy, true, 1)
	require.NoError(t, err)
	next, err := courier.RestoreCourier(
		kernel.NewUUID(), "kurir baru", "", courier.StatusAvailable, true, 0)
	require.NoError(t, err)
	aggregate := reassignableOrder(t, previous.ID())

	cmd, err := commands.NewReassignOrderCommand(aggregate.ID(), next.ID())
	require.NoError(t, err)

	orderRepo := new(MockSweepOrderRepository)
	courierRepo := new(MockSweepCourierRepository)
	uow := new(MockSweepUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("CourierRepository").Return(courierRepo).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	courierRepo.On("Get", ctx, next.ID()).Return(next, nil).Once()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Once()
	courierRepo.On("Update", ctx, next).Return(nil).Once()
	courierRepo.On("Get", ctx, previous.ID()).Return(previous, nil).Once()
	courierRepo.On("Update", ctx, previous).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockSweepUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, aggregate.Courier())
	assert.True(t, aggregate.Courier().IsEqual(next.ID()))
	assert.Nil(t, aggregate.KurirArrivedAt())
	assert.Equal(t, 1, next.ActiveOrders())
	assert.Equal(t, courier.StatusBusy, next.Status())
	assert.Equal(t, 0, previous.ActiveOrders())
	courierRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestReassignOrderCommandHandler_Handle_CourierNotSelectable(t *testing.T) {
	ctx := t.Context()

	suspended, err := courier.RestoreCourier(
		kernel.NewUUID(), "kurir", "", courier.StatusAvailable, false, 0)
	require.NoError(t, err)
	aggregate := reassignableOrder(t, kernel.NewUUID())

	cmd, err := commands.NewReassignOrderCommand(aggregate.ID(), suspended.ID())
	require.NoError(t, err)

	orderRepo := new(MockSweepOrderRepository)
	courierRepo := new(MockSweepCourierRepository)
	uow := new(MockSweepUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("CourierRepository").Return(courierRepo).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	courierRepo.On("Get", ctx, suspended.ID()).Return(suspended, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockSweepUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCourierNotSelectable)
	orderRepo.AssertNotCalled(t, "Update")
	uow.AssertNotCalled(t, "Commit")
}

func TestReassignOrderCommandHandler_Handle_TerminalOrderRejected(t *testing.T) {
	ctx := t.Context()

	next, err := courier.RestoreCourier(
		kernel.NewUUID(), "kurir", "", courier.StatusAvailable, true, 0)
	require.NoError(t, err)

	dest, err := kernel.NewGeoPoint(-6.2, 106.8)
	require.NoError(t, err)
	completed, err := order.RestoreOrder(
		kernel.NewUUID(), "KK-0101", order.Completed, order.DeliveryTypeDelivery,
		nil, nil, nil, nil, nil, &dest, "cash", "paid", 7)
	require.NoError(t, err)

	cmd, err := commands.NewReassignOrderCommand(completed.ID(), next.ID())
	require.NoError(t, err)

	orderRepo := new(MockSweepOrderRepository)
	courierRepo := new(MockSweepCourierRepository)
	uow := new(MockSweepUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("CourierRepository").Return(courierRepo).Once()
	orderRepo.On("Get", ctx, completed.ID()).Return(completed, nil).Once()
	courierRepo.On("Get", ctx, next.ID()).Return(next, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockSweepUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReassignOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, order.Completed, completed.Status())
	orderRepo.AssertNotCalled(t, "Update")
}
