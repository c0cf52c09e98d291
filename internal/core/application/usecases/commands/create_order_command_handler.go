package commands

import (
	"context"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/services"
)

// CreateOrderResult adds the planned instance diff to the order result.
type CreateOrderResult struct {
	OrderResult
	Changes []services.Change
}

// CreateOrderCommandHandler creates orders and their initial service instances.
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.OrderCoordinator
	clock       kernel.Clock
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	coordinator services.OrderCoordinator,
	clock kernel.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
		clock:       clock,
	}
}

// Handle loads the requested catalog services, lets the coordinator build the
// order and persists it.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	catalogServices, err := uow.CatalogRepository().GetMany(ctx, serviceIDs(cmd.Services()))
	if err != nil {
		return CreateOrderResult{}, err
	}

	now := h.clock.Now()
	o, changes, err := h.coordinator.Create(cmd.Actor(), services.NewOrderRequest{
		OrderNumber:  cmd.OrderNumber(),
		OrderDate:    cmd.OrderDate(),
		DeliveryDate: cmd.DeliveryDate(),
		Details:      cmd.Details(),
		Services:     cmd.Services(),
	}, catalogServices, now)
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{OrderResult: newOrderResult(o, now), Changes: changes}, nil
}

func serviceIDs(desired []services.DesiredQuantity) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(desired))
	for _, d := range desired {
		ids = append(ids, d.ServiceID)
	}
	return ids
}
