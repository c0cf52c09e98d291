package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// DefaultOverdueSchedule runs the monitor every five minutes.
const DefaultOverdueSchedule = "0 */5 * * * *"

// OverdueTaskLister is the read side the monitor polls.
type OverdueTaskLister interface {
	Handle(ctx context.Context, query queries.ListOverdueTasksQuery) ([]queries.OverdueTask, error)
}

// OverdueMonitorJob periodically reports tasks past their deadline. It only
// reads; task statuses are never changed by the job.
type OverdueMonitorJob struct {
	lister   OverdueTaskLister
	actor    access.Actor
	clock    kernel.Clock
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOverdueMonitorJob creates the monitor. actor decides which tasks are
// visible; the composition root passes a system admin.
func NewOverdueMonitorJob(
	lister OverdueTaskLister,
	actor access.Actor,
	clock kernel.Clock,
	schedule string,
	logger *slog.Logger,
) *OverdueMonitorJob {
	if schedule == "" {
		schedule = DefaultOverdueSchedule
	}
	return &OverdueMonitorJob{
		lister:   lister,
		actor:    actor,
		clock:    clock,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "overdue_monitor_job"),
	}
}

// Start schedules the monitor. An invalid schedule is returned as an error.
func (j *OverdueMonitorJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, runErr := j.Run(ctx); runErr != nil {
			j.logger.ErrorContext(ctx, "Overdue monitor job failed", "error", runErr)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue monitor job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *OverdueMonitorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue monitor job stopped")
}

// Run performs one pass and returns the number of overdue tasks found.
func (j *OverdueMonitorJob) Run(ctx context.Context) (int, error) {
	query, err := queries.NewListOverdueTasksQuery(j.actor)
	if err != nil {
		return 0, err
	}
	overdue, err := j.lister.Handle(ctx, query)
	if err != nil {
		return 0, err
	}

	now := j.clock.Now()
	for _, t := range overdue {
		j.logger.WarnContext(ctx, "Task is overdue",
			"task_id", t.TaskID.String(),
			"order_number", t.OrderNumber,
			"service", t.ServiceName,
			"assigned_user_id", t.AssignedUserID.String(),
			"priority", t.Priority.String(),
			"deadline", t.Deadline,
			"overdue_for", now.Sub(t.Deadline).Truncate(time.Minute).String(),
		)
	}
	if len(overdue) > 0 {
		j.logger.InfoContext(ctx, "Overdue monitor pass finished", "overdue", len(overdue))
	}
	return len(overdue), nil
}
