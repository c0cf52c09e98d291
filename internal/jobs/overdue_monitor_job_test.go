package jobs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOverdueTaskLister struct {
	mock.Mock
}

func (m *MockOverdueTaskLister) Handle(ctx context.Context, query queries.ListOverdueTasksQuery) ([]queries.OverdueTask, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.OverdueTask), args.Error(1)
}

var now = time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)

func newSystemActor(t *testing.T) access.Actor {
	t.Helper()
	p, err := access.NewPrincipal(kernel.NewUUID(), access.Admin, nil)
	require.NoError(t, err)
	return p
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestOverdueMonitorJob_Run(t *testing.T) {
	t.Run("should log one warning per overdue task", func(t *testing.T) {
		var buf bytes.Buffer
		lister := &MockOverdueTaskLister{}
		lister.On("Handle", mock.Anything, mock.Anything).Return([]queries.OverdueTask{{
			TaskID:         kernel.NewUUID(),
			OrderID:        kernel.NewUUID(),
			OrderNumber:    "ORD-7",
			ServiceName:    "Retouch",
			AssignedUserID: kernel.NewUUID(),
			Deadline:       now.Add(-90 * time.Minute),
			Priority:       task.Urgent,
			Status:         task.InProgress,
		}}, nil)
		job := jobs.NewOverdueMonitorJob(lister, newSystemActor(t), kernel.FixedClock(now), "",
			slog.New(slog.NewJSONHandler(&buf, nil)))

		count, err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		lines := logLines(t, &buf)
		require.Len(t, lines, 2)
		assert.Equal(t, "WARN", lines[0]["level"])
		assert.Equal(t, "overdue_monitor_job", lines[0]["component"])
		assert.Equal(t, "ORD-7", lines[0]["order_number"])
		assert.Equal(t, "URGENT", lines[0]["priority"])
		assert.Equal(t, "1h30m0s", lines[0]["overdue_for"])
		lister.AssertExpectations(t)
	})

	t.Run("should stay quiet when nothing is overdue", func(t *testing.T) {
		var buf bytes.Buffer
		lister := &MockOverdueTaskLister{}
		lister.On("Handle", mock.Anything, mock.Anything).Return([]queries.OverdueTask{}, nil)
		job := jobs.NewOverdueMonitorJob(lister, newSystemActor(t), kernel.FixedClock(now), "",
			slog.New(slog.NewJSONHandler(&buf, nil)))

		count, err := job.Run(context.Background())

		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, buf.String())
	})

	t.Run("should return the query error", func(t *testing.T) {
		lister := &MockOverdueTaskLister{}
		lister.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
		job := jobs.NewOverdueMonitorJob(lister, newSystemActor(t), kernel.FixedClock(now), "",
			slog.New(slog.DiscardHandler))

		_, err := job.Run(context.Background())

		require.EqualError(t, err, "db down")
	})

	t.Run("should reject a missing actor", func(t *testing.T) {
		lister := &MockOverdueTaskLister{}
		job := jobs.NewOverdueMonitorJob(lister, nil, kernel.FixedClock(now), "", slog.New(slog.DiscardHandler))

		_, err := job.Run(context.Background())

		require.ErrorIs(t, err, queries.ErrActorIsRequired)
		lister.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should fail to start with an invalid schedule", func(t *testing.T) {
		job := jobs.NewOverdueMonitorJob(&MockOverdueTaskLister{}, newSystemActor(t), kernel.SystemClock{},
			"every five minutes", slog.New(slog.DiscardHandler))

		err := jobs.NewJobManager(job).StartAll()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "overdue monitor")
	})

	t.Run("should start and stop", func(t *testing.T) {
		job := jobs.NewOverdueMonitorJob(&MockOverdueTaskLister{}, newSystemActor(t), kernel.SystemClock{},
			jobs.DefaultOverdueSchedule, slog.New(slog.DiscardHandler))
		manager := jobs.NewJobManager(job)

		require.NoError(t, manager.StartAll())
		manager.StopAll()
	})
}
