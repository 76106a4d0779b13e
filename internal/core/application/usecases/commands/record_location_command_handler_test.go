package commands_test

import (
	"context"
	"testing"
	"time"

	"kopikurir/internal/core/application/usecases/commands"
	"kopikurir/internal/core/domain/model/courier"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/tracking"
	"kopikurir/internal/core/ports"
	"kopikurir/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLocationRepository struct{ mock.Mock }

func (m *MockLocationRepository) Upsert(ctx context.Context, sample *tracking.LocationSample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *MockLocationRepository) GetByCourier(ctx context.Context, courierID kernel.UUID) (*tracking.LocationSample, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.LocationSample), args.Error(1)
}

func (m *MockLocationRepository) GetByCouriers(ctx context.Context, courierIDs []kernel.UUID) ([]*tracking.LocationSample, error) {
	args := m.Called(ctx, courierIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracking.LocationSample), args.Error(1)
}

type MockTrackingUoW struct{ mock.Mock }

func (m *MockTrackingUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTrackingUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTrackingUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTrackingUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockTrackingUoW) LocationRepository() ports.LocationRepository {
	args := m.Called()
	return args.Get(0).(ports.LocationRepository)
}

type MockTrackingUoWFactory struct{ mock.Mock }

func (m *MockTrackingUoWFactory) Create() commands.TrackingUoW {
	args := m.Called()
	return args.Get(0).(commands.TrackingUoW)
}

func TestRecordLocationCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	reporter, err := courier.RestoreCourier(
		kernel.NewUUID(), "kurir", "+62812", courier.StatusBusy, true, 1)
	require.NoError(t, err)
	point, err := kernel.NewGeoPoint(-6.2, 106.8)
	require.NoError(t, err)
	cmd, err := commands.NewRecordLocationCommand(reporter.ID(), point, 8, 3.5, time.Now())
	require.NoError(t, err)

	courierRepo := new(MockSweepCourierRepository)
	locationRepo := new(MockLocationRepository)
	uow := new(MockTrackingUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Get", ctx, reporter.ID()).Return(reporter, nil).Once(),
		uow.On("LocationRepository").Return(locationRepo).Once(),
		locationRepo.On("Upsert", ctx, mock.AnythingOfType("*tracking.LocationSample")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTrackingUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordLocationCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	stored := locationRepo.Calls[0].Arguments[1].(*tracking.LocationSample)
	assert.Equal(t, reporter.ID(), stored.CourierID())
	assert.True(t, stored.Point().IsEqual(point))
	locationRepo.AssertExpectations(t)
}

func TestRecordLocationCommandHandler_Handle_UnknownCourier(t *testing.T) {
	ctx := t.Context()

	point, err := kernel.NewGeoPoint(-6.2, 106.8)
	require.NoError(t, err)
	cmd, err := commands.NewRecordLocationCommand(kernel.NewUUID(), point, 8, 3.5, time.Now())
	require.NoError(t, err)

	courierRepo := new(MockSweepCourierRepository)
	locationRepo := new(MockLocationRepository)
	uow := new(MockTrackingUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Get", ctx, cmd.CourierID()).
			Return(nil, errs.NewObjectNotFoundError("courierID", cmd.CourierID())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTrackingUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordLocationCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	locationRepo.AssertNotCalled(t, "Upsert")
}
