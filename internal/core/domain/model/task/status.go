package task

import (
	"fmt"

	"orderdesk/internal/pkg/errs"
)

// Status is the stored lifecycle state of a task.
//
//	NOT_ASSIGNED ──> ASSIGNED ──> IN_PROGRESS ⇄ PAUSED
//	      ^             ^              │          │
//	      │             └── reassign ──┴──────────┤
//	      └──────────────── discard ──────────────┤
//	                                   IN_PROGRESS ──> COMPLETED
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	NotAssigned
	Assigned
	InProgress
	Paused
	Completed
)

// OverdueLabel is the display label used instead of the stored status when the
// deadline has passed on an unfinished task.
const OverdueLabel = "OVERDUE"

var statusNames = map[Status]string{
	NotAssigned: "NOT_ASSIGNED",
	Assigned:    "ASSIGNED",
	InProgress:  "IN_PROGRESS",
	Paused:      "PAUSED",
	Completed:   "COMPLETED",
}

func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects Unknown and out-of-range values read from storage or the wire.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("task status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s, str := range statusNames {
		if str == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("task status", fmt.Errorf("%q is not a valid status", name))
}

// Assign allows NOT_ASSIGNED -> ASSIGNED only.
func (s Status) Assign() (Status, error) {
	if s != NotAssigned {
		return Unknown, s.invalid("assign")
	}
	return Assigned, nil
}

// Reassign allows ASSIGNED, IN_PROGRESS and PAUSED -> ASSIGNED.
func (s Status) Reassign() (Status, error) {
	switch s {
	case Assigned, InProgress, Paused:
		return Assigned, nil
	default:
		return Unknown, s.invalid("reassign")
	}
}

// Discard allows every assigned, unfinished state -> NOT_ASSIGNED.
// Discarding a task that is already unassigned is rejected so the call is not
// silently repeated.
func (s Status) Discard() (Status, error) {
	switch s {
	case Assigned, InProgress, Paused:
		return NotAssigned, nil
	default:
		return Unknown, s.invalid("discard")
	}
}

// Start allows ASSIGNED -> IN_PROGRESS.
func (s Status) Start() (Status, error) {
	if s != Assigned {
		return Unknown, s.invalid("start")
	}
	return InProgress, nil
}

// TogglePause flips IN_PROGRESS and PAUSED and fails closed for every other state.
func (s Status) TogglePause() (Status, error) {
	switch s {
	case InProgress:
		return Paused, nil
	case Paused:
		return InProgress, nil
	default:
		return Unknown, s.invalid("pause or resume")
	}
}

// Complete allows IN_PROGRESS -> COMPLETED.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return Unknown, s.invalid("complete")
	}
	return Completed, nil
}

func (s Status) invalid(action string) error {
	return errs.NewInvalidTransitionError("task", s.String(), action)
}
