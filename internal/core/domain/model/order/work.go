package order

import (
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/asking"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/errs"
)

// AssignTask gives an unassigned task to a user. The actor must work for the
// team owning the service, the order must have a folder link and the deadline
// must lie within [orderDate, deliveryDate).
func (o *Order) AssignTask(actor access.Actor, taskID kernel.UUID, a task.Assignment) (*task.Task, error) {
	inst, err := o.InstanceByTaskID(taskID)
	if err != nil {
		return nil, err
	}
	if err = o.checkAssignment(actor, inst, a, "assign task"); err != nil {
		return nil, err
	}
	if err = inst.Task().Assign(a); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return inst.Task(), nil
}

// ReassignTask moves a task to another user and restarts it.
func (o *Order) ReassignTask(actor access.Actor, taskID kernel.UUID, a task.Assignment) (*task.Task, error) {
	inst, err := o.InstanceByTaskID(taskID)
	if err != nil {
		return nil, err
	}
	if err = o.checkAssignment(actor, inst, a, "reassign task"); err != nil {
		return nil, err
	}
	if err = inst.Task().Reassign(a); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return inst.Task(), nil
}

// DiscardTask returns a task to NOT_ASSIGNED.
func (o *Order) DiscardTask(actor access.Actor, taskID kernel.UUID) (*task.Task, error) {
	inst, err := o.InstanceByTaskID(taskID)
	if err != nil {
		return nil, err
	}
	if err = access.RequireTeam(actor, inst.Service().TeamID(), "discard task"); err != nil {
		return nil, err
	}
	if err = inst.Task().Discard(); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return inst.Task(), nil
}

// StartTask begins work on an assigned task.
func (o *Order) StartTask(actor access.Actor, taskID kernel.UUID, now time.Time) (*task.Task, error) {
	inst, err := o.workerTask(actor, taskID, "start task")
	if err != nil {
		return nil, err
	}
	if err = inst.Task().Start(now); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return inst.Task(), nil
}

// TogglePauseTask flips a task between IN_PROGRESS and PAUSED.
func (o *Order) TogglePauseTask(actor access.Actor, taskID kernel.UUID) (*task.Task, error) {
	inst, err := o.workerTask(actor, taskID, "pause task")
	if err != nil {
		return nil, err
	}
	if _, err = inst.Task().TogglePause(); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return inst.Task(), nil
}

// CompleteTask finishes a running task. Notes are required when the service
// asks for a completion note.
func (o *Order) CompleteTask(actor access.Actor, taskID kernel.UUID, notes string, now time.Time) (*task.Task, error) {
	inst, err := o.workerTask(actor, taskID, "complete task")
	if err != nil {
		return nil, err
	}
	if err = inst.Task().Complete(notes, inst.Service().RequiresCompletionNote(), now); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return inst.Task(), nil
}

// AdvanceAskingStage records a stage on an asking task.
func (o *Order) AdvanceAskingStage(
	actor access.Actor,
	askingTaskID kernel.UUID,
	target asking.Stage,
	details map[string]string,
	now time.Time,
) (*asking.AskingTask, error) {
	at, err := o.teamAskingTask(actor, askingTaskID, "advance asking stage")
	if err != nil {
		return nil, err
	}
	if err = at.AdvanceStage(target, details, actor.ID(), now); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return at, nil
}

// SetAskingFlag flags an asking task with reason, or clears the flag.
func (o *Order) SetAskingFlag(actor access.Actor, askingTaskID kernel.UUID, flagged bool, reason string) (*asking.AskingTask, error) {
	at, err := o.teamAskingTask(actor, askingTaskID, "flag asking task")
	if err != nil {
		return nil, err
	}
	if flagged {
		err = at.Flag(reason)
	} else {
		err = at.Unflag()
	}
	if err != nil {
		return nil, err
	}

	o.refreshStatus()
	return at, nil
}

// CompleteAskingTask completes an asking task that reached its final stage.
func (o *Order) CompleteAskingTask(actor access.Actor, askingTaskID kernel.UUID, notes string, now time.Time) (*asking.AskingTask, error) {
	at, err := o.teamAskingTask(actor, askingTaskID, "complete asking task")
	if err != nil {
		return nil, err
	}
	if err = at.Complete(actor.ID(), notes, now); err != nil {
		return nil, err
	}

	o.refreshStatus()
	return at, nil
}

func (o *Order) checkAssignment(actor access.Actor, inst *ServiceInstance, a task.Assignment, action string) error {
	if err := access.RequireTeam(actor, inst.Service().TeamID(), action); err != nil {
		return err
	}
	if !o.HasFolderLink() {
		return ErrFolderLinkIsRequired
	}
	if err := a.Validate(); err != nil {
		return err
	}
	return o.checkDeadline(a.Deadline())
}

// checkDeadline enforces deadline ∈ [orderDate, deliveryDate).
func (o *Order) checkDeadline(deadline time.Time) error {
	if deadline.Before(o.orderDate) || !deadline.Before(o.deliveryDate) {
		return errs.NewValueIsOutOfRangeError("deadline",
			deadline.Format(time.RFC3339), o.orderDate.Format(time.RFC3339), o.deliveryDate.Format(time.RFC3339))
	}
	return nil
}

// workerTask resolves a task the actor may work on: its assignee, a member of
// the owning team or an admin.
func (o *Order) workerTask(actor access.Actor, taskID kernel.UUID, action string) (*ServiceInstance, error) {
	inst, err := o.InstanceByTaskID(taskID)
	if err != nil {
		return nil, err
	}
	if actor != nil {
		if assignee := inst.Task().AssignedUser(); assignee != nil && assignee.IsEqual(actor.ID()) {
			return inst, nil
		}
	}
	if err = access.RequireTeam(actor, inst.Service().TeamID(), action); err != nil {
		return nil, err
	}
	return inst, nil
}

func (o *Order) teamAskingTask(actor access.Actor, askingTaskID kernel.UUID, action string) (*asking.AskingTask, error) {
	inst, err := o.InstanceByAskingTaskID(askingTaskID)
	if err != nil {
		return nil, err
	}
	if err = access.RequireTeam(actor, inst.Service().TeamID(), action); err != nil {
		return nil, err
	}
	return inst.AskingTask(), nil
}
