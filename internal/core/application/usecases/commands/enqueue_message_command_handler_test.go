package commands_test

import (
	"context"
	"errors"
	"testing"

	"kopikurir/internal/core/application/usecases/commands"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/outbound"
	"kopikurir/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEnqueueUoW struct{ mock.Mock }

func (m *MockEnqueueUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEnqueueUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEnqueueUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEnqueueUoW) MessageRepository() ports.MessageRepository {
	args := m.Called()
	return args.Get(0).(ports.MessageRepository)
}

type MockEnqueueUoWFactory struct{ mock.Mock }

func (m *MockEnqueueUoWFactory) Create() commands.MessageUoW {
	args := m.Called()
	return args.Get(0).(commands.MessageUoW)
}

func TestEnqueueMessageCommandHandler_Handle_FirstSendSucceeds(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewEnqueueMessageCommand(
		kernel.NewUUID(), "twilio", "+6281234567890", "kurir menuju lokasi", 3)
	require.NoError(t, err)

	messageRepo := new(MockWorkerMessageRepository)
	uow := new(MockEnqueueUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("MessageRepository").Return(messageRepo).Once(),
		messageRepo.On("Add", ctx, mock.AnythingOfType("*outbound.Message")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	provider := new(MockSMSProvider)
	provider.On("Send", ctx, cmd.To(), cmd.Body()).
		Return(ports.SMSSendResult{ProviderMessageID: "SM-100"}, nil).Once()

	factory := new(MockEnqueueUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewEnqueueMessageCommandHandler(factory, provider)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	stored := messageRepo.Calls[0].Arguments[1].(*outbound.Message)
	assert.Equal(t, outbound.StatusSent, stored.Status())
	assert.Equal(t, "SM-100", stored.ProviderMessageID())
	messageRepo.AssertExpectations(t)
}

func TestEnqueueMessageCommandHandler_Handle_FirstSendFailsBooksRetry(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewEnqueueMessageCommand(
		kernel.NewUUID(), "twilio", "+6281234567890", "kurir menuju lokasi", 3)
	require.NoError(t, err)

	messageRepo := new(MockWorkerMessageRepository)
	uow := new(MockEnqueueUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("MessageRepository").Return(messageRepo).Once(),
		messageRepo.On("Add", ctx, mock.AnythingOfType("*outbound.Message")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	provider := new(MockSMSProvider)
	provider.On("Send", ctx, cmd.To(), cmd.Body()).
		Return(ports.SMSSendResult{}, errors.New("gateway timeout")).Once()

	factory := new(MockEnqueueUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewEnqueueMessageCommandHandler(factory, provider)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	stored := messageRepo.Calls[0].Arguments[1].(*outbound.Message)
	assert.Equal(t, outbound.StatusRetryScheduled, stored.Status())
	assert.Equal(t, 1, stored.RetryCount())
	require.NotNil(t, stored.NextRetryAt())
	assert.Equal(t, "gateway timeout", stored.LastError())
}

func TestEnqueueMessageCommandHandler_Handle_SendsBeforeOpeningTransaction(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewEnqueueMessageCommand(
		kernel.NewUUID(), "twilio", "+6281234567890", "kurir menuju lokasi", 3)
	require.NoError(t, err)

	var steps []string

	messageRepo := new(MockWorkerMessageRepository)
	messageRepo.On("Add", ctx, mock.AnythingOfType("*outbound.Message")).Return(nil).Once()

	uow := new(MockEnqueueUoW)
	uow.On("Begin", ctx).Run(func(mock.Arguments) {
		steps = append(steps, "begin")
	}).Return(nil).Once()
	uow.On("MessageRepository").Return(messageRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	provider := new(MockSMSProvider)
	provider.On("Send", ctx, cmd.To(), cmd.Body()).Run(func(mock.Arguments) {
		steps = append(steps, "send")
	}).Return(ports.SMSSendResult{ProviderMessageID: "SM-200"}, nil).Once()

	factory := new(MockEnqueueUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewEnqueueMessageCommandHandler(factory, provider)
	require.NoError(t, handler.Handle(ctx, cmd))

	// A slow gateway must never sit inside an open transaction.
	assert.Equal(t, []string{"send", "begin"}, steps)
}
