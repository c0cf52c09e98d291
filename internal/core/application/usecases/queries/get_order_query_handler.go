package queries

import (
	"context"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/errs"
)

// OrderView is the full order as shown on its detail page.
type OrderView struct {
	Order *order.Order
	Stats services.Stats
	Gate  services.Gate
}

// GetOrderQueryHandler reads through the order repository so the detail view
// is built from the same aggregate the commands use.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	clock      kernel.Clock
}

func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory, clock kernel.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory, clock: clock}
}

// Handle fails with an AuthorizationError when the order is outside the
// actor's scope.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	if !canSee(query.Actor(), o) {
		return OrderView{}, errs.NewAuthorizationError(query.Actor().ID().String(), "view order")
	}

	return OrderView{
		Order: o,
		Stats: services.ComputeStats(o, h.clock.Now()),
		Gate:  services.EvaluateGate(o),
	}, nil
}
