package queries

import (
	"context"
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/task"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOverdueTasksQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

func NewListOverdueTasksQueryHandler(db *gorm.DB, clock kernel.Clock) ListOverdueTasksQueryHandler {
	return ListOverdueTasksQueryHandler{db: db, clock: clock}
}

type overdueTaskRow struct {
	TaskID         uuid.UUID
	OrderID        uuid.UUID
	OrderNumber    string
	ServiceName    string
	TeamID         uuid.UUID
	AssignedUserID uuid.UUID
	Deadline       time.Time
	Priority       int
	Status         int
}

func (h ListOverdueTasksQueryHandler) Handle(ctx context.Context, query ListOverdueTasksQuery) ([]OverdueTask, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			t.id AS task_id,
			o.id AS order_id,
			o.order_number,
			s.name AS service_name,
			s.team_id,
			t.assigned_user_id,
			t.deadline,
			t.priority,
			t.status
		FROM tasks t
		JOIN service_instances si ON si.id = t.instance_id
		JOIN orders o ON o.id = si.order_id
		JOIN services s ON s.id = si.service_id
		WHERE t.deadline < ? AND t.status NOT IN (?, ?)`
	args := []any{h.clock.Now(), int(task.NotAssigned), int(task.Completed)}

	if actor := query.Actor(); !actor.IsAdmin() {
		sql += " AND s.team_id = ANY(?::uuid[])"
		args = append(args, teamIDArray(actor))
	}
	sql += " ORDER BY t.deadline, o.order_number"

	var rows []overdueTaskRow
	if err := h.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	tasks := make([]OverdueTask, 0, len(rows))
	for _, row := range rows {
		t, err := row.toOverdueTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r overdueTaskRow) toOverdueTask() (OverdueTask, error) {
	taskID, taskErr := kernel.UUIDFromBytes(r.TaskID[:])
	orderID, orderErr := kernel.UUIDFromBytes(r.OrderID[:])
	teamID, teamErr := kernel.UUIDFromBytes(r.TeamID[:])
	userID, userErr := kernel.UUIDFromBytes(r.AssignedUserID[:])
	if err := errors.Join(taskErr, orderErr, teamErr, userErr); err != nil {
		return OverdueTask{}, err
	}

	return OverdueTask{
		TaskID:         taskID,
		OrderID:        orderID,
		OrderNumber:    r.OrderNumber,
		ServiceName:    r.ServiceName,
		TeamID:         teamID,
		AssignedUserID: userID,
		Deadline:       r.Deadline,
		Priority:       task.Priority(r.Priority),
		Status:         task.Status(r.Status),
	}, nil
}
