package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var ErrCompleteTaskCommandIsNotConstructed = errors.New(
	"CompleteTaskCommand must be created via NewCompleteTaskCommand constructor",
)

// CompleteTaskCommand completes a running task. Whether notes are required is
// decided by the task's service when the command is handled.
type CompleteTaskCommand struct {
	actor  access.Actor
	taskID kernel.UUID
	notes  string

	guard guard.ConstructorGuard
}

func NewCompleteTaskCommand(actor access.Actor, taskID kernel.UUID, notes string) (CompleteTaskCommand, error) {
	if err := errors.Join(validateActor(actor), taskID.Validate()); err != nil {
		return CompleteTaskCommand{}, err
	}
	return CompleteTaskCommand{
		actor:  actor,
		taskID: taskID,
		notes:  notes,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteTaskCommand) Validate() error {
	return c.guard.Validate(ErrCompleteTaskCommandIsNotConstructed)
}

func (c CompleteTaskCommand) Actor() access.Actor { return c.actor }
func (c CompleteTaskCommand) TaskID() kernel.UUID { return c.taskID }
func (c CompleteTaskCommand) Notes() string       { return c.notes }
