package task

import (
	"errors"
	"strings"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var (
	ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")
	ErrDeadlineIsRequired         = errs.NewValueIsRequiredError("deadline")
)

// Assignment is who works on a task, by when, how urgently and with which notes.
type Assignment struct {
	userID   kernel.UUID
	deadline time.Time
	priority Priority
	notes    string
	guard    guard.ConstructorGuard
}

func NewAssignment(userID kernel.UUID, deadline time.Time, priority Priority, notes string) (Assignment, error) {
	var deadlineErr error
	if deadline.IsZero() {
		deadlineErr = ErrDeadlineIsRequired
	}
	if err := errors.Join(userID.Validate(), deadlineErr, priority.Validate()); err != nil {
		return Assignment{}, err
	}

	return Assignment{
		userID:   userID,
		deadline: deadline.UTC(),
		priority: priority,
		notes:    strings.TrimSpace(notes),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (a Assignment) Validate() error {
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a Assignment) UserID() kernel.UUID { return a.userID }
func (a Assignment) Deadline() time.Time { return a.deadline }
func (a Assignment) Priority() Priority  { return a.priority }
func (a Assignment) Notes() string       { return a.notes }
