package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// OrderActionCommandHandler runs verification and revision completion.
//
// Example:
//
//	handler := NewOrderActionCommandHandler(uowFactory, kernel.SystemClock{})
//	cmd, err := NewOrderActionCommand(leader, orderID, VerifyOrder)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrPrecondition) {
//	    // an instance is missing its work item
//	}
type OrderActionCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

func NewOrderActionCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) OrderActionCommandHandler {
	return OrderActionCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle verifies a PENDING order or marks a revision order as reworked.
// Both need an editor of the order: an admin or a leader of a team that owns
// one of its services.
func (h OrderActionCommandHandler) Handle(ctx context.Context, cmd OrderActionCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return mutateOrder(ctx, h.uowFactory, h.clock, byOrderID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		if cmd.Action() == CompleteRevision {
			return o.CompleteRevision(cmd.Actor(), now)
		}
		return o.Verify(cmd.Actor())
	})
}
