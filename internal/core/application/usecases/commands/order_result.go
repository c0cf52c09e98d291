package commands

import (
	"context"
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"
)

// ErrActorIsRequired is returned by command constructors without an actor.
var ErrActorIsRequired = errs.NewValueIsRequiredError("actor")

// OrderResult is returned by every command: the order after the change and
// its statistics at the time of the change.
type OrderResult struct {
	Order *order.Order
	Stats services.Stats
}

func newOrderResult(o *order.Order, now time.Time) OrderResult {
	return OrderResult{Order: o, Stats: services.ComputeStats(o, now)}
}

// orderLoader loads the order a command works on.
type orderLoader func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error)

func byOrderID(id kernel.UUID) orderLoader {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.Get(ctx, id)
	}
}

func byTaskID(id kernel.UUID) orderLoader {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.GetByTaskID(ctx, id)
	}
}

func byAskingTaskID(id kernel.UUID) orderLoader {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.GetByAskingTaskID(ctx, id)
	}
}

// mutateOrder runs the load, mutate, update, commit sequence shared by the
// handlers. The order is not written when mutate fails.
func mutateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	load orderLoader,
	mutate func(o *order.Order, now time.Time) error,
) (OrderResult, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := load(ctx, repo)
	if err != nil {
		return OrderResult{}, err
	}

	now := clock.Now()
	if err = mutate(o, now); err != nil {
		return OrderResult{}, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return OrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResult{}, err
	}

	return newOrderResult(o, now), nil
}

func validateActor(actor access.Actor) error {
	if actor == nil {
		return ErrActorIsRequired
	}
	return nil
}

func validateIDs(ids []kernel.UUID) error {
	var err error
	for _, id := range ids {
		err = errors.Join(err, id.Validate())
	}
	return err
}
