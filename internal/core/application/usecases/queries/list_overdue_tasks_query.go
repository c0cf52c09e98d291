package queries

import (
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/guard"
)

var ErrListOverdueTasksQueryIsNotConstructed = errors.New(
	"ListOverdueTasksQuery must be created via NewListOverdueTasksQuery constructor",
)

// ListOverdueTasksQuery lists tasks past their deadline that are not completed,
// oldest deadline first. Members only see tasks of their own teams.
type ListOverdueTasksQuery struct {
	actor access.Actor

	guard guard.ConstructorGuard
}

func NewListOverdueTasksQuery(actor access.Actor) (ListOverdueTasksQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListOverdueTasksQuery{}, err
	}
	return ListOverdueTasksQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOverdueTasksQuery) Validate() error {
	return q.guard.Validate(ErrListOverdueTasksQueryIsNotConstructed)
}

func (q ListOverdueTasksQuery) Actor() access.Actor { return q.actor }

type OverdueTask struct {
	TaskID         kernel.UUID
	OrderID        kernel.UUID
	OrderNumber    string
	ServiceName    string
	TeamID         kernel.UUID
	AssignedUserID kernel.UUID
	Deadline       time.Time
	Priority       task.Priority
	Status         task.Status
}
