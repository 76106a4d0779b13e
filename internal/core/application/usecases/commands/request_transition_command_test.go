package commands_test

import (
	"testing"

	"kopikurir/internal/core/application/usecases/commands"
	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/order"
	"kopikurir/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestTransitionCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()

	cmd, err := commands.NewRequestTransitionCommand(
		orderID, order.EventPickup, actorID, commands.ActorRoleCourier)

	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.EventPickup, cmd.Event())
	assert.Equal(t, actorID, cmd.ActorID())
	assert.Equal(t, commands.ActorRoleCourier, cmd.ActorRole())
	assert.NoError(t, cmd.Validate())
}

func TestNewRequestTransitionCommand_InvalidEvent(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.NewUUID(), order.Event("teleport"), kernel.NewUUID(), commands.ActorRoleAdmin)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewRequestTransitionCommand_EmptyOrderID(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.UUID{}, order.EventArrive, kernel.NewUUID(), commands.ActorRoleCourier)

	require.Error(t, err)
}

func TestNewRequestTransitionCommand_EmptyActorID(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.NewUUID(), order.EventArrive, kernel.UUID{}, commands.ActorRoleCourier)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewRequestTransitionCommand_UnknownActorRole(t *testing.T) {
	_, err := commands.NewRequestTransitionCommand(
		kernel.NewUUID(), order.EventArrive, kernel.NewUUID(), "barista")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRequestTransitionCommand_NotConstructed(t *testing.T) {
	cmd := commands.RequestTransitionCommand{}

	require.ErrorIs(t, cmd.Validate(), commands.ErrRequestTransitionCommandIsNotConstructed)
}
