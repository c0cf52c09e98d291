package commands

import (
	"errors"
	"fmt"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrTaskActionCommandIsNotConstructed = errors.New(
	"TaskActionCommand must be created via NewTaskActionCommand constructor",
)

// TaskAction is a task transition that takes no input.
type TaskAction int

const (
	UnknownTaskAction TaskAction = iota
	// StartTask moves ASSIGNED to IN_PROGRESS.
	StartTask
	// TogglePauseTask flips IN_PROGRESS and PAUSED.
	TogglePauseTask
	// DiscardTask returns the task to NOT_ASSIGNED.
	DiscardTask
)

func (a TaskAction) String() string {
	switch a {
	case StartTask:
		return "start"
	case TogglePauseTask:
		return "pause"
	case DiscardTask:
		return "discard"
	default:
		return "unknown"
	}
}

// TaskActionCommand runs a TaskAction on one task.
type TaskActionCommand struct {
	actor  access.Actor
	taskID kernel.UUID
	action TaskAction

	guard guard.ConstructorGuard
}

func NewTaskActionCommand(actor access.Actor, taskID kernel.UUID, action TaskAction) (TaskActionCommand, error) {
	var actionErr error
	if action < StartTask || action > DiscardTask {
		actionErr = errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a task action", action))
	}
	if err := errors.Join(validateActor(actor), taskID.Validate(), actionErr); err != nil {
		return TaskActionCommand{}, err
	}
	return TaskActionCommand{
		actor:  actor,
		taskID: taskID,
		action: action,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c TaskActionCommand) Validate() error {
	return c.guard.Validate(ErrTaskActionCommandIsNotConstructed)
}

func (c TaskActionCommand) Actor() access.Actor { return c.actor }
func (c TaskActionCommand) TaskID() kernel.UUID { return c.taskID }
func (c TaskActionCommand) Action() TaskAction  { return c.action }
