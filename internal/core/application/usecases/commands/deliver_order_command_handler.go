package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"
)

// DeliverOrderResult carries the gate evaluated right before delivery.
type DeliverOrderResult struct {
	OrderResult
	Gate services.Gate
}

// DeliverOrderCommandHandler delivers orders through the coordinator.
type DeliverOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	coordinator services.OrderCoordinator
	clock       kernel.Clock
}

func NewDeliverOrderCommandHandler(
	uowFactory OrderUoWFactory,
	coordinator services.OrderCoordinator,
	clock kernel.Clock,
) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{uowFactory: uowFactory, coordinator: coordinator, clock: clock}
}

// Handle returns the gate even when delivery is refused for lack of
// acknowledgment, so callers can show the counts.
func (h DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) (DeliverOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliverOrderResult{}, err
	}

	var gate services.Gate
	result, err := mutateOrder(ctx, h.uowFactory, h.clock, byOrderID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		var deliverErr error
		gate, deliverErr = h.coordinator.Deliver(cmd.Actor(), o, cmd.Acknowledged(), now)
		return deliverErr
	})
	if err != nil {
		return DeliverOrderResult{Gate: gate}, err
	}
	return DeliverOrderResult{OrderResult: result, Gate: gate}, nil
}
