package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/services"
)

// ReconcileServicesResult carries the diff and, unless the run was dry, the
// updated order.
type ReconcileServicesResult struct {
	OrderResult
	Changes []services.Change
	DryRun  bool
}

// ReconcileServicesCommandHandler applies service quantity edits.
type ReconcileServicesCommandHandler struct {
	uowFactory OrderUoWFactory
	reconciler services.ServiceReconciler
	clock      kernel.Clock
}

func NewReconcileServicesCommandHandler(
	uowFactory OrderUoWFactory,
	reconciler services.ServiceReconciler,
	clock kernel.Clock,
) ReconcileServicesCommandHandler {
	return ReconcileServicesCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		clock:      clock,
	}
}

// Handle plans the change for the whole order before anything is written. A
// dry run or an empty plan leaves the stored order untouched.
func (h ReconcileServicesCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileServicesCommand,
) (ReconcileServicesResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileServicesResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReconcileServicesResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ReconcileServicesResult{}, err
	}

	catalogServices, err := uow.CatalogRepository().GetMany(ctx, serviceIDs(cmd.Desired()))
	if err != nil {
		return ReconcileServicesResult{}, err
	}

	now := h.clock.Now()
	changes, err := h.reconciler.Reconcile(cmd.Actor(), o, cmd.Desired(), catalogServices, cmd.DryRun(), now)
	if err != nil {
		return ReconcileServicesResult{}, err
	}

	result := ReconcileServicesResult{
		OrderResult: newOrderResult(o, now),
		Changes:     changes,
		DryRun:      cmd.DryRun(),
	}
	if cmd.DryRun() || len(changes) == 0 {
		return result, nil
	}

	if err = repo.Update(ctx, o); err != nil {
		return ReconcileServicesResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ReconcileServicesResult{}, err
	}

	result.OrderResult = newOrderResult(o, now)
	return result, nil
}
