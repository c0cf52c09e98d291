package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// AssignTaskCommandHandler assigns and reassigns tasks.
type AssignTaskCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

func NewAssignTaskCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) AssignTaskCommandHandler {
	return AssignTaskCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle assigns a NOT_ASSIGNED task, or reassigns a started one when the
// command was built by NewReassignTaskCommand. The deadline must fall inside
// the order's [orderDate, deliveryDate) window.
func (h AssignTaskCommandHandler) Handle(ctx context.Context, cmd AssignTaskCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return mutateOrder(ctx, h.uowFactory, h.clock, byTaskID(cmd.TaskID()), func(o *order.Order, _ time.Time) error {
		var err error
		if cmd.IsReassign() {
			_, err = o.ReassignTask(cmd.Actor(), cmd.TaskID(), cmd.Assignment())
		} else {
			_, err = o.AssignTask(cmd.Actor(), cmd.TaskID(), cmd.Assignment())
		}
		return err
	})
}
