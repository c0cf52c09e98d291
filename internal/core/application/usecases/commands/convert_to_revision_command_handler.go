package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/services"
)

// ConvertToRevisionCommandHandler stores a new revision order. The delivered
// order is read but never written.
type ConvertToRevisionCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.OrderCoordinator
	clock       kernel.Clock
}

func NewConvertToRevisionCommandHandler(
	uowFactory OrderUoWFactory,
	coordinator services.OrderCoordinator,
	clock kernel.Clock,
) ConvertToRevisionCommandHandler {
	return ConvertToRevisionCommandHandler{uowFactory: uowFactory, coordinator: coordinator, clock: clock}
}

// Handle returns the revision order.
func (h ConvertToRevisionCommandHandler) Handle(ctx context.Context, cmd ConvertToRevisionCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	original, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return OrderResult{}, err
	}

	existing, err := repo.CountRevisions(ctx, original.ID())
	if err != nil {
		return OrderResult{}, err
	}

	now := h.clock.Now()
	revision, err := h.coordinator.ConvertToRevision(cmd.Actor(), original, existing, cmd.InstanceIDs(), cmd.DeliveryDate(), now)
	if err != nil {
		return OrderResult{}, err
	}

	if err = repo.Add(ctx, revision); err != nil {
		return OrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResult{}, err
	}

	return newOrderResult(revision, now), nil
}
