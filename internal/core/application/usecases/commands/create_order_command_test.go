package commands_test

import (
	"context"
	"errors"
	"testing"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("should require an actor", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(nil, "C-1", orderDate, deliveryDate, order.Details{}, nil)

		require.ErrorIs(t, err, commands.ErrActorIsRequired)
	})

	t.Run("should reject a zero value command", func(t *testing.T) {
		var cmd commands.CreateOrderCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}

func TestCreateOrderCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()

	newCommand := func(t *testing.T, w *world) commands.CreateOrderCommand {
		cmd, err := commands.NewCreateOrderCommand(w.creator, "C-10", orderDate, deliveryDate,
			order.Details{Amount: 12000, FolderLink: "https://drive.example/c-10"},
			[]services.DesiredQuantity{
				{ServiceID: w.retouch.ID(), Quantity: 2},
				{ServiceID: w.ask.ID(), Quantity: 1},
			})
		require.NoError(t, err)
		return cmd
	}

	t.Run("should persist the order with its instances", func(t *testing.T) {
		w := newWorld(t)
		cmd := newCommand(t, w)

		mock.InOrder(
			w.uow.On("Begin", ctx).Return(nil).Once(),
			w.catRepo.On("GetMany", ctx, []kernel.UUID{w.retouch.ID(), w.ask.ID()}).Return(w.catalog, nil).Once(),
			w.repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
			w.uow.On("Commit", ctx).Return(nil).Once(),
		)

		handler := commands.NewCreateOrderCommandHandler(w.factory, services.NewOrderCoordinator(services.NewServiceReconciler()), clock)
		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "C-10", result.Order.OrderNumber())
		assert.Equal(t, order.Pending, result.Order.Status())
		assert.Equal(t, 3, result.Order.InstanceCount())
		assert.Len(t, result.Changes, 2)
		assert.Equal(t, 3, result.Stats.IncompleteTotal)
		assert.Equal(t, 1, result.Stats.MandatoryRemaining)
		w.assertExpectations(t)
	})

	t.Run("should not write when the actor cannot create orders", func(t *testing.T) {
		w := newWorld(t)
		cmd, err := commands.NewCreateOrderCommand(w.member, "C-11", orderDate, deliveryDate, order.Details{},
			[]services.DesiredQuantity{{ServiceID: w.retouch.ID(), Quantity: 1}})
		require.NoError(t, err)

		w.uow.On("Begin", ctx).Return(nil).Once()
		w.catRepo.On("GetMany", ctx, mock.Anything).Return(w.catalog, nil).Once()

		handler := commands.NewCreateOrderCommandHandler(w.factory, services.NewOrderCoordinator(services.NewServiceReconciler()), clock)
		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
		w.repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		w.uow.AssertNotCalled(t, "Commit", mock.Anything)
		w.uow.AssertCalled(t, "Rollback", ctx)
	})

	t.Run("should return the begin error", func(t *testing.T) {
		w := newWorld(t)
		cmd := newCommand(t, w)
		beginErr := errors.New("connection refused")

		w.uow.On("Begin", ctx).Return(beginErr).Once()

		handler := commands.NewCreateOrderCommandHandler(w.factory, services.NewOrderCoordinator(services.NewServiceReconciler()), clock)
		_, err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, beginErr)
		w.catRepo.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	})

	t.Run("should return the commit error", func(t *testing.T) {
		w := newWorld(t)
		cmd := newCommand(t, w)
		commitErr := errors.New("serialization failure")

		w.uow.On("Begin", ctx).Return(nil).Once()
		w.catRepo.On("GetMany", ctx, mock.Anything).Return(w.catalog, nil).Once()
		w.repo.On("Add", ctx, mock.Anything).Return(nil).Once()
		w.uow.On("Commit", ctx).Return(commitErr).Once()

		handler := commands.NewCreateOrderCommandHandler(w.factory, services.NewOrderCoordinator(services.NewServiceReconciler()), clock)
		_, err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, commitErr)
		w.assertExpectations(t)
	})
}
