package commands

import (
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/guard"
)

var ErrAssignTaskCommandIsNotConstructed = errors.New(
	"AssignTaskCommand must be created via NewAssignTaskCommand or NewReassignTaskCommand",
)

// AssignTaskCommand assigns an unassigned task, or reassigns an assigned one.
//
// Example:
//
//	cmd, err := NewAssignTaskCommand(actor, taskID, userID, deadline, task.High, "use the raw files")
//	result, err := handler.Handle(ctx, cmd)
type AssignTaskCommand struct {
	actor      access.Actor
	taskID     kernel.UUID
	assignment task.Assignment
	reassign   bool

	guard guard.ConstructorGuard
}

// NewAssignTaskCommand builds an assignment of a NOT_ASSIGNED task.
func NewAssignTaskCommand(
	actor access.Actor,
	taskID kernel.UUID,
	userID kernel.UUID,
	deadline time.Time,
	priority task.Priority,
	notes string,
) (AssignTaskCommand, error) {
	return newAssignTaskCommand(actor, taskID, userID, deadline, priority, notes, false)
}

// NewReassignTaskCommand builds a reassignment, which restarts the task.
func NewReassignTaskCommand(
	actor access.Actor,
	taskID kernel.UUID,
	userID kernel.UUID,
	deadline time.Time,
	priority task.Priority,
	notes string,
) (AssignTaskCommand, error) {
	return newAssignTaskCommand(actor, taskID, userID, deadline, priority, notes, true)
}

func newAssignTaskCommand(
	actor access.Actor,
	taskID kernel.UUID,
	userID kernel.UUID,
	deadline time.Time,
	priority task.Priority,
	notes string,
	reassign bool,
) (AssignTaskCommand, error) {
	a, assignmentErr := task.NewAssignment(userID, deadline, priority, notes)
	if err := errors.Join(validateActor(actor), taskID.Validate(), assignmentErr); err != nil {
		return AssignTaskCommand{}, err
	}
	return AssignTaskCommand{
		actor:      actor,
		taskID:     taskID,
		assignment: a,
		reassign:   reassign,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignTaskCommand) Validate() error {
	return c.guard.Validate(ErrAssignTaskCommandIsNotConstructed)
}

func (c AssignTaskCommand) Actor() access.Actor         { return c.actor }
func (c AssignTaskCommand) TaskID() kernel.UUID         { return c.taskID }
func (c AssignTaskCommand) Assignment() task.Assignment { return c.assignment }
func (c AssignTaskCommand) IsReassign() bool            { return c.reassign }
