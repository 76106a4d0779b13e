package order_test

import (
	"testing"

	"kopikurir/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("valid_statuses", func(t *testing.T) {
		statuses := []order.Status{
			order.Pending, order.Confirmed, order.Processing,
			order.Ready, order.Delivering, order.Completed, order.Cancelled,
		}
		for _, s := range statuses {
			require.NoError(t, s.Validate(), s.String())
		}
	})

	t.Run("invalid_statuses", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
		require.Error(t, order.Status(42).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	tests := map[order.Status]string{
		order.Unknown:    "unknown",
		order.Pending:    "pending",
		order.Confirmed:  "confirmed",
		order.Processing: "processing",
		order.Ready:      "ready",
		order.Delivering: "delivering",
		order.Completed:  "completed",
		order.Cancelled:  "cancelled",
		order.Status(42): "unknown",
	}
	for status, want := range tests {
		assert.Equal(t, want, status.String())
	}
}

func TestStatusFromString(t *testing.T) {
	t.Run("round_trips_valid_names", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending, order.Confirmed, order.Processing,
			order.Ready, order.Delivering, order.Completed, order.Cancelled,
		} {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects_unknown_names", func(t *testing.T) {
		_, err := order.StatusFromString("shipped")
		require.Error(t, err)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	for _, s := range []order.Status{
		order.Pending, order.Confirmed, order.Processing, order.Ready, order.Delivering,
	} {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestStatus_IsActiveDelivery(t *testing.T) {
	active := []order.Status{order.Confirmed, order.Processing, order.Ready, order.Delivering}
	for _, s := range active {
		assert.True(t, s.IsActiveDelivery(), s.String())
	}
	inactive := []order.Status{order.Pending, order.Completed, order.Cancelled, order.Unknown}
	for _, s := range inactive {
		assert.False(t, s.IsActiveDelivery(), s.String())
	}
}

func TestStatus_CanAdvanceTo(t *testing.T) {
	t.Run("forward_chain", func(t *testing.T) {
		chain := []order.Status{
			order.Pending, order.Confirmed, order.Processing,
			order.Ready, order.Delivering, order.Completed,
		}
		for i := 0; i < len(chain)-1; i++ {
			assert.True(t, chain[i].CanAdvanceTo(chain[i+1]),
				"%s -> %s", chain[i], chain[i+1])
		}
	})

	t.Run("no_skipping_or_backtracking", func(t *testing.T) {
		assert.False(t, order.Pending.CanAdvanceTo(order.Processing))
		assert.False(t, order.Confirmed.CanAdvanceTo(order.Delivering))
		assert.False(t, order.Ready.CanAdvanceTo(order.Processing))
		assert.False(t, order.Delivering.CanAdvanceTo(order.Ready))
	})

	t.Run("cancel_from_any_non_terminal_state", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending, order.Confirmed, order.Processing, order.Ready, order.Delivering,
		} {
			assert.True(t, s.CanAdvanceTo(order.Cancelled), s.String())
		}
		assert.False(t, order.Completed.CanAdvanceTo(order.Cancelled))
		assert.False(t, order.Cancelled.CanAdvanceTo(order.Cancelled))
	})
}
