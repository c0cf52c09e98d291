package task_test

import (
	"testing"

	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	all := []task.Status{task.Unknown, task.NotAssigned, task.Assigned, task.InProgress, task.Paused, task.Completed}

	cases := []struct {
		name    string
		apply   func(task.Status) (task.Status, error)
		allowed map[task.Status]task.Status
	}{
		{
			name:    "assign",
			apply:   task.Status.Assign,
			allowed: map[task.Status]task.Status{task.NotAssigned: task.Assigned},
		},
		{
			name:  "reassign",
			apply: task.Status.Reassign,
			allowed: map[task.Status]task.Status{
				task.Assigned:   task.Assigned,
				task.InProgress: task.Assigned,
				task.Paused:     task.Assigned,
			},
		},
		{
			name:  "discard",
			apply: task.Status.Discard,
			allowed: map[task.Status]task.Status{
				task.Assigned:   task.NotAssigned,
				task.InProgress: task.NotAssigned,
				task.Paused:     task.NotAssigned,
			},
		},
		{
			name:    "start",
			apply:   task.Status.Start,
			allowed: map[task.Status]task.Status{task.Assigned: task.InProgress},
		},
		{
			name:  "toggle pause",
			apply: task.Status.TogglePause,
			allowed: map[task.Status]task.Status{
				task.InProgress: task.Paused,
				task.Paused:     task.InProgress,
			},
		},
		{
			name:    "complete",
			apply:   task.Status.Complete,
			allowed: map[task.Status]task.Status{task.InProgress: task.Completed},
		},
	}

	for _, tc := range cases {
		for _, from := range all {
			t.Run(tc.name+" from "+from.String(), func(t *testing.T) {
				next, err := tc.apply(from)

				if want, ok := tc.allowed[from]; ok {
					require.NoError(t, err)
					assert.Equal(t, want, next)
					return
				}
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
				assert.Equal(t, task.Unknown, next)
			})
		}
	}
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, task.Paused.Validate())
	require.ErrorIs(t, task.Unknown.Validate(), errs.ErrValidation)
	require.ErrorIs(t, task.Status(42).Validate(), errs.ErrValidation)
}

func TestParseStatusAndPriority(t *testing.T) {
	s, err := task.ParseStatus("IN_PROGRESS")
	require.NoError(t, err)
	assert.Equal(t, task.InProgress, s)

	_, err = task.ParseStatus("OVERDUE")
	require.ErrorIs(t, err, errs.ErrValidation, "overdue is derived and never parsed as a stored status")

	p, err := task.ParsePriority("URGENT")
	require.NoError(t, err)
	assert.Equal(t, task.Urgent, p)

	_, err = task.ParsePriority("")
	require.ErrorIs(t, err, errs.ErrValidation)
}
