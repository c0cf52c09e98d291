package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// TaskActionCommandHandler starts, pauses, resumes and discards tasks.
// The task is located through its owning order, which is loaded, changed and
// stored in one unit of work so the order status follows the task.
//
// Example:
//
//	handler := NewTaskActionCommandHandler(uowFactory, kernel.SystemClock{})
//	cmd, err := NewTaskActionCommand(actor, taskID, TogglePauseTask)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    log.Println("Task is neither running nor paused")
//	case errors.Is(err, errs.ErrConcurrentModification):
//	    log.Println("Order changed meanwhile, reload and retry")
//	case err != nil:
//	    log.Printf("Task action failed: %v", err)
//	default:
//	    log.Printf("Order %s is %s", result.Order.OrderNumber(), result.Order.Status())
//	}
type TaskActionCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

func NewTaskActionCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) TaskActionCommandHandler {
	return TaskActionCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle runs the command's action against the task. Starting stamps startedAt
// once; discarding clears the assignment. Returns ErrObjectNotFound when no
// order owns the task.
func (h TaskActionCommandHandler) Handle(ctx context.Context, cmd TaskActionCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return mutateOrder(ctx, h.uowFactory, h.clock, byTaskID(cmd.TaskID()), func(o *order.Order, now time.Time) error {
		var err error
		switch cmd.Action() {
		case StartTask:
			_, err = o.StartTask(cmd.Actor(), cmd.TaskID(), now)
		case TogglePauseTask:
			_, err = o.TogglePauseTask(cmd.Actor(), cmd.TaskID())
		case DiscardTask:
			_, err = o.DiscardTask(cmd.Actor(), cmd.TaskID())
		}
		return err
	})
}
