package commands_test

import (
	"testing"

	"kopikurir/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessOutboundMessagesCommand(t *testing.T) {
	cmd := commands.NewProcessOutboundMessagesCommand()

	assert.NoError(t, cmd.Validate())
}

func TestProcessOutboundMessagesCommand_NotConstructed(t *testing.T) {
	cmd := commands.ProcessOutboundMessagesCommand{}

	require.ErrorIs(t, cmd.Validate(),
		commands.ErrProcessOutboundMessagesCommandIsNotConstructed)
}
