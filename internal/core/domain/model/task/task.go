package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var (
	ErrTaskIsNotConstructed     = errors.New("Task must be created via NewTask or RestoreTask")
	ErrCompletionNotesRequired  = errs.NewValueIsRequiredError("completionNotes")
	ErrAssignmentStateIsInvalid = errors.New("assignment does not match task status")
)

// Task is the unit of work of one SERVICE_TASK instance.
//
// Invariants:
//   - NOT_ASSIGNED tasks carry no assignment; every other status carries one
//   - COMPLETED tasks carry completedAt
//   - completedAt and completionNotes are written once, by Complete
type Task struct {
	id kernel.UUID

	status Status

	// assignment is nil while the task is NOT_ASSIGNED
	assignment *Assignment

	startedAt       *time.Time
	completedAt     *time.Time
	completionNotes string

	guard guard.ConstructorGuard
}

// NewTask creates an unassigned task.
func NewTask(id kernel.UUID) (*Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &Task{
		id:     id,
		status: NotAssigned,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// RestoreTask rebuilds a task from storage and checks that the stored fields
// are consistent with the stored status.
func RestoreTask(
	id kernel.UUID,
	status Status,
	assignment *Assignment,
	startedAt *time.Time,
	completedAt *time.Time,
	completionNotes string,
) (*Task, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if assignment != nil {
		if err := assignment.Validate(); err != nil {
			return nil, err
		}
	}
	if (status == NotAssigned) != (assignment == nil) {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentStateIsInvalid, status)
	}
	if (status == Completed) != (completedAt != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("completedAt",
			fmt.Errorf("completedAt must be set exactly when status is %s", Completed))
	}

	return &Task{
		id:              id,
		status:          status,
		assignment:      assignment,
		startedAt:       startedAt,
		completedAt:     completedAt,
		completionNotes: completionNotes,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (t *Task) Validate() error {
	if t == nil {
		return ErrTaskIsNotConstructed
	}
	return t.guard.Validate(ErrTaskIsNotConstructed)
}

func (t *Task) ID() kernel.UUID           { return t.id }
func (t *Task) Status() Status            { return t.status }
func (t *Task) StartedAt() *time.Time     { return t.startedAt }
func (t *Task) CompletedAt() *time.Time   { return t.completedAt }
func (t *Task) CompletionNotes() string   { return t.completionNotes }
func (t *Task) IsCompleted() bool         { return t.completedAt != nil }
func (t *Task) HasLeftInitialState() bool { return t.status != NotAssigned }
func (t *Task) Assignment() *Assignment   { return t.assignment }

// AssignedUser returns nil for unassigned tasks.
func (t *Task) AssignedUser() *kernel.UUID {
	if t.assignment == nil {
		return nil
	}
	id := t.assignment.UserID()
	return &id
}

// IsOverdue reports whether the deadline passed before the task was completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.assignment == nil || t.status == Completed {
		return false
	}
	return t.assignment.Deadline().Before(now)
}

// DisplayStatus returns OVERDUE for overdue tasks and the stored status otherwise.
func (t *Task) DisplayStatus(now time.Time) string {
	if t.IsOverdue(now) {
		return OverdueLabel
	}
	return t.status.String()
}

// Assign gives an unassigned task to a user.
func (t *Task) Assign(a Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	next, err := t.status.Assign()
	if err != nil {
		return err
	}

	t.status = next
	t.assignment = &a
	return nil
}

// Reassign replaces the assignment and restarts the work: the task returns to
// ASSIGNED and its start time is cleared.
func (t *Task) Reassign(a Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	next, err := t.status.Reassign()
	if err != nil {
		return err
	}

	t.status = next
	t.assignment = &a
	t.startedAt = nil
	return nil
}

// Discard drops the assignment and returns the task to NOT_ASSIGNED.
func (t *Task) Discard() error {
	next, err := t.status.Discard()
	if err != nil {
		return err
	}

	t.status = next
	t.assignment = nil
	t.startedAt = nil
	return nil
}

// Start begins the work. startedAt keeps its first value.
func (t *Task) Start(now time.Time) error {
	next, err := t.status.Start()
	if err != nil {
		return err
	}

	t.status = next
	if t.startedAt == nil {
		started := now.UTC()
		t.startedAt = &started
	}
	return nil
}

// TogglePause pauses running work or resumes paused work and returns the new status.
func (t *Task) TogglePause() (Status, error) {
	next, err := t.status.TogglePause()
	if err != nil {
		return Unknown, err
	}

	t.status = next
	return next, nil
}

// Complete finishes running work. notesRequired comes from the owning service.
func (t *Task) Complete(notes string, notesRequired bool, now time.Time) error {
	next, err := t.status.Complete()
	if err != nil {
		return err
	}

	notes = strings.TrimSpace(notes)
	if notesRequired && notes == "" {
		return ErrCompletionNotesRequired
	}

	completed := now.UTC()
	t.status = next
	t.completedAt = &completed
	t.completionNotes = notes
	return nil
}
