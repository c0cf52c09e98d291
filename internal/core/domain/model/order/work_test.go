package order_test

import (
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/asking"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_AssignTask(t *testing.T) {
	f := newFixture(t)

	t.Run("should assign and promote the order", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		tk, err := o.AssignTask(f.member, firstTaskID(o), assignment(t, f.member.ID(), now.Add(24*time.Hour)))

		require.NoError(t, err)
		assert.Equal(t, task.Assigned, tk.Status())
		assert.Equal(t, order.InProgress, o.Status())
	})

	t.Run("should reject a deadline before the order date", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		_, err := o.AssignTask(f.member, firstTaskID(o), assignment(t, f.member.ID(), orderDate.AddDate(0, 0, -1)))

		require.ErrorIs(t, err, errs.ErrValidation)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should reject a deadline on the delivery date", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		_, err := o.AssignTask(f.member, firstTaskID(o), assignment(t, f.member.ID(), deliveryDate))

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("should accept a deadline on the order date", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		_, err := o.AssignTask(f.member, firstTaskID(o), assignment(t, f.member.ID(), orderDate))

		require.NoError(t, err)
	})

	t.Run("should require a folder link", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		require.NoError(t, o.SetFolderLink(f.admin, ""))

		_, err := o.AssignTask(f.member, firstTaskID(o), assignment(t, f.member.ID(), now))

		require.ErrorIs(t, err, errs.ErrPrecondition)
	})

	t.Run("should reject actors outside the owning team", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		_, err := o.AssignTask(f.outside, firstTaskID(o), assignment(t, f.outside.ID(), now))

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should let admins assign any team's task", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		_, err := o.AssignTask(f.admin, firstTaskID(o), assignment(t, f.member.ID(), now))

		require.NoError(t, err)
	})

	t.Run("should report unknown tasks as not found", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		_, err := o.AssignTask(f.admin, kernel.NewUUID(), assignment(t, f.member.ID(), now))

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_TaskLifecycle(t *testing.T) {
	f := newFixture(t)

	t.Run("should reassign a started task and clear startedAt", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		id := firstTaskID(o)
		_, err := o.AssignTask(f.leader, id, assignment(t, f.member.ID(), now))
		require.NoError(t, err)
		tk, err := o.StartTask(f.member, id, now)
		require.NoError(t, err)
		require.NotNil(t, tk.StartedAt())

		userB := kernel.NewUUID()
		tk, err = o.ReassignTask(f.leader, id, assignment(t, userB, now.Add(time.Hour)))

		require.NoError(t, err)
		assert.Equal(t, task.Assigned, tk.Status())
		assert.Nil(t, tk.StartedAt())
		assert.True(t, tk.AssignedUser().IsEqual(userB))
	})

	t.Run("should let the assignee work even outside the team", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		id := firstTaskID(o)
		_, err := o.AssignTask(f.admin, id, assignment(t, f.outside.ID(), now))
		require.NoError(t, err)

		_, err = o.StartTask(f.outside, id, now)
		require.NoError(t, err)
		tk, err := o.TogglePauseTask(f.outside, id)
		require.NoError(t, err)
		assert.Equal(t, task.Paused, tk.Status())
	})

	t.Run("should require completion notes from the service", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		id := firstTaskID(o)
		_, err := o.AssignTask(f.admin, id, assignment(t, f.member.ID(), now))
		require.NoError(t, err)
		_, err = o.StartTask(f.member, id, now)
		require.NoError(t, err)

		_, err = o.CompleteTask(f.member, id, "", now)
		require.ErrorIs(t, err, errs.ErrValidation)

		tk, err := o.CompleteTask(f.member, id, "retouched 40 photos", now)
		require.NoError(t, err)
		assert.Equal(t, task.Completed, tk.Status())
		assert.NotNil(t, tk.CompletedAt())
	})

	t.Run("should discard back to not assigned", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		id := firstTaskID(o)
		_, err := o.AssignTask(f.member, id, assignment(t, f.member.ID(), now))
		require.NoError(t, err)

		tk, err := o.DiscardTask(f.member, id)

		require.NoError(t, err)
		assert.Equal(t, task.NotAssigned, tk.Status())
		_, err = o.DiscardTask(f.member, id)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_AskingTasks(t *testing.T) {
	f := newFixture(t)

	t.Run("should advance, flag and complete", func(t *testing.T) {
		o := f.newOrder(t, f.asking)
		id := firstAskingID(o)

		for _, stage := range []asking.Stage{asking.Shared, asking.Verified, asking.InformedTeam} {
			_, err := o.AdvanceAskingStage(f.member, id, stage, map[string]string{"by": "phone"}, now)
			require.NoError(t, err)
		}
		assert.Equal(t, order.InProgress, o.Status())

		at, err := o.SetAskingFlag(f.member, id, true, "waiting on client")
		require.NoError(t, err)
		assert.True(t, at.IsFlagged())
		at, err = o.SetAskingFlag(f.member, id, false, "")
		require.NoError(t, err)
		assert.False(t, at.IsFlagged())

		at, err = o.CompleteAskingTask(f.member, id, "", now)
		require.NoError(t, err)
		assert.True(t, at.CompletedUser().IsEqual(f.member.ID()))
	})

	t.Run("should reject stage skipping", func(t *testing.T) {
		o := f.newOrder(t, f.asking)

		_, err := o.AdvanceAskingStage(f.member, firstAskingID(o), asking.Verified, nil, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should reject early completion", func(t *testing.T) {
		o := f.newOrder(t, f.asking)

		_, err := o.CompleteAskingTask(f.leader, firstAskingID(o), "", now)

		require.ErrorIs(t, err, errs.ErrPrecondition)
	})

	t.Run("should reject other teams", func(t *testing.T) {
		o := f.newOrder(t, f.asking)

		_, err := o.SetAskingFlag(f.outside, firstAskingID(o), true, "x")

		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}
