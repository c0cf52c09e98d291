package order_test

import (
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("should create a pending order", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), " ORD-1 ", orderDate, deliveryDate,
			order.Details{Amount: 100, DeliveryTime: "9:30"}, now)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "ORD-1", o.OrderNumber())
		assert.Equal(t, "09:30", o.DeliveryTime())
		assert.False(t, o.HasFolderLink())
		assert.Zero(t, o.Version())
		assert.Nil(t, o.CompletedAt())
	})

	t.Run("should join every validation error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, "", deliveryDate, orderDate,
			order.Details{Amount: -1, DeliveryTime: "noon"}, now)

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Nil(t, o)
		for _, part := range []string{"UUID", "orderNumber", "deliveryDate", "amount", "deliveryTime"} {
			assert.Contains(t, err.Error(), part)
		}
	})
}

func TestRestoreOrder(t *testing.T) {
	base := order.Snapshot{
		ID:           kernel.NewUUID(),
		OrderNumber:  "ORD-7",
		Status:       order.Completed,
		OrderDate:    orderDate,
		DeliveryDate: deliveryDate,
		Version:      3,
	}

	t.Run("should reject completed order without completedAt", func(t *testing.T) {
		_, err := order.RestoreOrder(base)

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("should restore version and status", func(t *testing.T) {
		s := base
		done := now
		s.CompletedAt = &done

		o, err := order.RestoreOrder(s)

		require.NoError(t, err)
		assert.Equal(t, 3, o.Version())
		o.AdvanceVersion()
		assert.Equal(t, 4, o.Version())
	})

	t.Run("should reject revision completion on regular orders", func(t *testing.T) {
		s := base
		done := now
		s.CompletedAt = &done
		s.RevisionCompletedAt = &done

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestOrder_Verify(t *testing.T) {
	f := newFixture(t)

	t.Run("should move pending to in progress for editors", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		require.NoError(t, o.Verify(f.leader))
		assert.Equal(t, order.InProgress, o.Status())
	})

	t.Run("should reject a second verification", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		require.NoError(t, o.Verify(f.admin))

		require.ErrorIs(t, o.Verify(f.admin), errs.ErrInvalidTransition)
	})

	t.Run("should reject plain members", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		require.ErrorIs(t, o.Verify(f.member), errs.ErrUnauthorized)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_MarkDelivered(t *testing.T) {
	f := newFixture(t)

	t.Run("should complete with incomplete work", func(t *testing.T) {
		o := f.newOrder(t, f.asking, f.asking)

		require.NoError(t, o.MarkDelivered(f.leader, now))

		assert.Equal(t, order.Completed, o.Status())
		require.NotNil(t, o.CompletedAt())
		assert.Equal(t, now, *o.CompletedAt())
	})

	t.Run("should reject delivering twice", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		require.NoError(t, o.MarkDelivered(f.admin, now))

		require.ErrorIs(t, o.MarkDelivered(f.admin, now.Add(time.Hour)), errs.ErrInvalidTransition)
		assert.Equal(t, now, *o.CompletedAt())
	})
}

func TestOrder_FieldEdits(t *testing.T) {
	f := newFixture(t)

	t.Run("should extend delivery after completion", func(t *testing.T) {
		o := f.newOrder(t, f.editing)
		require.NoError(t, o.MarkDelivered(f.admin, now))
		later := deliveryDate.AddDate(0, 0, 7)
		slot := "14:00"

		require.NoError(t, o.ExtendDelivery(f.leader, later, &slot))

		assert.Equal(t, later, o.DeliveryDate())
		assert.Equal(t, "14:00", o.DeliveryTime())
	})

	t.Run("should keep delivery after order date", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		err := o.ExtendDelivery(f.leader, orderDate, nil)

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, deliveryDate, o.DeliveryDate())
	})

	t.Run("should update amount, notes and folder link", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		require.NoError(t, o.UpdateAmount(f.admin, 4200))
		require.NoError(t, o.UpdateNotes(f.admin, " rush "))
		require.NoError(t, o.SetFolderLink(f.admin, ""))

		assert.Equal(t, int64(4200), o.Amount())
		assert.Equal(t, "rush", o.Notes())
		assert.False(t, o.HasFolderLink())
		require.ErrorIs(t, o.UpdateAmount(f.admin, -5), errs.ErrValidation)
	})

	t.Run("should reject non editors", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		require.ErrorIs(t, o.UpdateNotes(f.member, "x"), errs.ErrUnauthorized)
		require.ErrorIs(t, o.UpdateAmount(nil, 1), errs.ErrUnauthorized)
	})
}

func TestOrder_OverrideStatus(t *testing.T) {
	f := newFixture(t)

	t.Run("should be admin only", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		require.ErrorIs(t, o.OverrideStatus(f.leader, order.Completed, now), errs.ErrUnauthorized)
	})

	t.Run("should stamp completion and stop promotion", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		require.NoError(t, o.OverrideStatus(f.admin, order.Completed, now))
		require.NotNil(t, o.CompletedAt())

		require.NoError(t, o.OverrideStatus(f.admin, order.Pending, now))
		assert.Nil(t, o.CompletedAt())
		assert.True(t, o.StatusOverridden())

		_, err := o.AssignTask(f.member, firstTaskID(o), assignment(t, f.member.ID(), now))
		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.InProgress, o.DeriveStatus())
	})
}

func TestOrder_ApplyInstanceChanges(t *testing.T) {
	f := newFixture(t)

	t.Run("should not remove assigned instances and change nothing", func(t *testing.T) {
		o := f.newOrder(t, f.editing, f.editing)
		instances := o.Instances()
		_, err := o.AssignTask(f.member, instances[0].Task().ID(), assignment(t, f.member.ID(), now))
		require.NoError(t, err)
		extra, err := order.NewServiceInstance(kernel.NewUUID(), f.asking, now)
		require.NoError(t, err)

		err = o.ApplyInstanceChanges([]*order.ServiceInstance{extra},
			[]kernel.UUID{instances[1].ID(), instances[0].ID()})

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, 2, o.InstanceCount())
	})

	t.Run("should add and remove together", func(t *testing.T) {
		o := f.newOrder(t, f.editing, f.editing)
		remove := o.Instances()[1].ID()
		extra, err := order.NewServiceInstance(kernel.NewUUID(), f.asking, now)
		require.NoError(t, err)

		require.NoError(t, o.ApplyInstanceChanges([]*order.ServiceInstance{extra}, []kernel.UUID{remove}))

		assert.Equal(t, 2, o.InstanceCount())
		_, err = o.Instance(remove)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Len(t, o.InstancesOf(f.asking.ID()), 1)
	})
}

func TestOrder_RequireEditor(t *testing.T) {
	f := newFixture(t)
	leaderID := kernel.NewUUID()
	m, err := access.NewMembership(otherTeam, leaderID, true, true)
	require.NoError(t, err)
	outsideLeader, err := access.NewPrincipal(leaderID, access.Member, []access.Membership{m})
	require.NoError(t, err)

	t.Run("should allow leaders of a team owning one of the services", func(t *testing.T) {
		o := f.newOrder(t, f.editing)

		require.NoError(t, o.RequireEditor(f.leader, "update notes"))
		require.NoError(t, o.RequireEditor(f.admin, "update notes"))
	})

	t.Run("should reject leaders of unrelated teams", func(t *testing.T) {
		o := f.newOrder(t, f.editing, f.asking)

		require.ErrorIs(t, o.UpdateNotes(outsideLeader, "x"), errs.ErrUnauthorized)
		require.ErrorIs(t, o.ExtendDelivery(outsideLeader, deliveryDate.AddDate(0, 0, 1), nil), errs.ErrUnauthorized)
		require.ErrorIs(t, o.MarkDelivered(outsideLeader, now), errs.ErrUnauthorized)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should leave orders without services to admins", func(t *testing.T) {
		o := f.newOrder(t)

		require.ErrorIs(t, o.Verify(f.leader), errs.ErrUnauthorized)
		require.NoError(t, o.Verify(f.admin))
	})
}
