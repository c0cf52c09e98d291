package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// AskingTaskCommandHandler handles the stage, flag and completion commands of
// asking tasks.
type AskingTaskCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

func NewAskingTaskCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) AskingTaskCommandHandler {
	return AskingTaskCommandHandler{uowFactory: uowFactory, clock: clock}
}

// HandleAdvance records the current or the next stage. Stage records are only
// ever appended.
func (h AskingTaskCommandHandler) HandleAdvance(ctx context.Context, cmd AdvanceAskingStageCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return mutateOrder(ctx, h.uowFactory, h.clock, byAskingTaskID(cmd.AskingTaskID()), func(o *order.Order, now time.Time) error {
		_, err := o.AdvanceAskingStage(cmd.Actor(), cmd.AskingTaskID(), cmd.Stage(), cmd.Details(), now)
		return err
	})
}

func (h AskingTaskCommandHandler) HandleFlag(ctx context.Context, cmd FlagAskingTaskCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return mutateOrder(ctx, h.uowFactory, h.clock, byAskingTaskID(cmd.AskingTaskID()), func(o *order.Order, _ time.Time) error {
		_, err := o.SetAskingFlag(cmd.Actor(), cmd.AskingTaskID(), cmd.Flagged(), cmd.Reason())
		return err
	})
}

// HandleComplete needs the INFORMED_TEAM stage; earlier stages fail with
// ErrPrecondition.
func (h AskingTaskCommandHandler) HandleComplete(ctx context.Context, cmd CompleteAskingTaskCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	return mutateOrder(ctx, h.uowFactory, h.clock, byAskingTaskID(cmd.AskingTaskID()), func(o *order.Order, now time.Time) error {
		_, err := o.CompleteAskingTask(cmd.Actor(), cmd.AskingTaskID(), cmd.Notes(), now)
		return err
	})
}
