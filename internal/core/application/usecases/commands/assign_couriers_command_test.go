package commands_test

import (
	"testing"

	"kopikurir/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignCouriersCommand(t *testing.T) {
	cmd := commands.NewAssignCouriersCommand()

	assert.NoError(t, cmd.Validate())
}

func TestAssignCouriersCommand_NotConstructed(t *testing.T) {
	cmd := commands.AssignCouriersCommand{}

	require.ErrorIs(t, cmd.Validate(), commands.ErrAssignCouriersCommandIsNotConstructed)
}
