package guard_test

import (
	"errors"
	"testing"

	"orderdesk/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("DeliverOrderCommand must be created via NewDeliverOrderCommand")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errNotConstructed := errors.New("startTaskCommand must be created via newStartTaskCommand")

	type startTaskCommand struct {
		taskID string
		guard  guard.ConstructorGuard
	}

	newStartTaskCommand := func(taskID string) (startTaskCommand, error) {
		if taskID == "" {
			return startTaskCommand{}, errors.New("task id is required")
		}
		return startTaskCommand{taskID: taskID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructor_built_command_is_valid", func(t *testing.T) {
		cmd, err := newStartTaskCommand("t-1")

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("literal_command_is_rejected", func(t *testing.T) {
		cmd := startTaskCommand{taskID: "t-1"}

		assert.Equal(t, errNotConstructed, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("copies_keep_the_flag", func(t *testing.T) {
		cmd, _ := newStartTaskCommand("t-1")
		copied := cmd

		require.NoError(t, copied.guard.Validate(errNotConstructed))
	})
}
