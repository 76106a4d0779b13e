package guard_test

import (
	"errors"
	"testing"

	"kopikurir/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotConstructed = errors.New("object must be created via its constructor")

type guardedObject struct {
	value string
	guard guard.ConstructorGuard
}

func newGuardedObject(value string) guardedObject {
	return guardedObject{value: value, guard: guard.NewConstructorGuard()}
}

func (o guardedObject) Validate() error {
	return o.guard.Validate(errNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_object_is_valid", func(t *testing.T) {
		obj := newGuardedObject("espresso")

		require.NoError(t, obj.Validate())
	})

	t.Run("zero_value_returns_supplied_error", func(t *testing.T) {
		var obj guardedObject

		err := obj.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, errNotConstructed)
	})

	t.Run("zero_value_without_error_falls_back_to_default", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
	})

	t.Run("constructed_guard_ignores_supplied_error", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		assert.NoError(t, g.Validate(errNotConstructed))
		assert.NoError(t, g.Validate(nil))
	})

	t.Run("copies_of_constructed_objects_stay_valid", func(t *testing.T) {
		obj := newGuardedObject("latte")
		copied := obj

		require.NoError(t, copied.Validate())
	})
}
