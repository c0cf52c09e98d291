package queries

import (
	"context"
	"strings"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/model/task"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler aggregates the work item counters in SQL.
type ListOrdersQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

func NewListOrdersQueryHandler(db *gorm.DB, clock kernel.Clock) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db, clock: clock}
}

// The counters mirror services.ComputeStats: an asking task carries its own
// mandatory flag, a task takes it from the service.
const listOrdersSelect = `
	SELECT
		o.id,
		o.order_number,
		o.status,
		o.is_revision,
		o.original_order_id,
		o.amount,
		o.order_date,
		o.delivery_date,
		o.delivery_time,
		o.completed_at,
		COUNT(si.id) AS total_tasks,
		COUNT(si.id) FILTER (WHERE COALESCE(t.completed_at, a.completed_at) IS NOT NULL) AS completed_tasks,
		COUNT(si.id) FILTER (
			WHERE COALESCE(t.completed_at, a.completed_at) IS NULL
			AND COALESCE(a.is_mandatory, s.is_mandatory)
		) AS mandatory_remaining,
		COUNT(t.id) FILTER (WHERE t.deadline < ? AND t.status <> ?) AS overdue_tasks
	FROM orders o
	LEFT JOIN service_instances si ON si.order_id = o.id
	LEFT JOIN services s ON s.id = si.service_id
	LEFT JOIN tasks t ON t.instance_id = si.id
	LEFT JOIN asking_tasks a ON a.instance_id = si.id`

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	args := []any{now, int(task.Completed)}
	var where []string

	if f := query.Filter(); f.Status != nil {
		where = append(where, "o.status = ?")
		args = append(args, int(*f.Status))
	}
	if f := query.Filter(); f.Revision != nil {
		where = append(where, "o.is_revision = ?")
		args = append(args, *f.Revision)
	}
	if actor := query.Actor(); !seesAllOrders(actor) {
		where = append(where, `EXISTS (
			SELECT 1 FROM service_instances vi
			JOIN services vs ON vs.id = vi.service_id
			WHERE vi.order_id = o.id AND vs.team_id = ANY(?::uuid[]))`)
		args = append(args, teamIDArray(actor))
	}

	sql := listOrdersSelect
	if len(where) > 0 {
		sql += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	sql += "\n\tGROUP BY o.id\n\tORDER BY o.delivery_date, o.order_number"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			s          OrderSummary
			id         uuid.UUID
			originalID *uuid.UUID
			status     int
		)
		err = rows.Scan(
			&id,
			&s.OrderNumber,
			&status,
			&s.IsRevision,
			&originalID,
			&s.Amount,
			&s.OrderDate,
			&s.DeliveryDate,
			&s.DeliveryTime,
			&s.CompletedAt,
			&s.TotalTasks,
			&s.CompletedTasks,
			&s.MandatoryRemaining,
			&s.OverdueTasks,
		)
		if err != nil {
			return nil, err
		}

		if s.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if originalID != nil {
			orig, origErr := kernel.UUIDFromBytes(originalID[:])
			if origErr != nil {
				return nil, origErr
			}
			s.OriginalOrderID = &orig
		}
		s.Status = order.Status(status)
		s.IncompleteTotal = s.TotalTasks - s.CompletedTasks
		if age := now.Sub(s.OrderDate); age > 0 {
			s.DaysOld = int(age / (24 * time.Hour))
		}
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
