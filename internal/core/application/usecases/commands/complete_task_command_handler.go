package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// CompleteTaskCommandHandler completes tasks.
type CompleteTaskCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

func NewCompleteTaskCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) CompleteTaskCommandHandler {
	return CompleteTaskCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle completes an IN_PROGRESS task.
func (h CompleteTaskCommandHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return mutateOrder(ctx, h.uowFactory, h.clock, byTaskID(cmd.TaskID()), func(o *order.Order, now time.Time) error {
		_, err := o.CompleteTask(cmd.Actor(), cmd.TaskID(), cmd.Notes(), now)
		return err
	})
}
