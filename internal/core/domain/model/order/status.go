package order

import (
	"fmt"

	"orderdesk/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> InProgress ──> Completed
//	   │                          ^
//	   └──────────────────────────┘
//	      (delivery is never blocked)
//
// Admins may override the status to any valid value.
type Status int

const (
	// Unknown helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every order, revisions included.
	Pending

	// InProgress is set by verification or by the first work item that leaves
	// its initial state.
	InProgress

	// Completed means the order was delivered.
	Completed
)

var statusNames = map[Status]string{
	Pending:    "PENDING",
	InProgress: "IN_PROGRESS",
	Completed:  "COMPLETED",
}

// String returns the wire name of the status, or "UNKNOWN".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%q is not a valid status", name))
}

// Verify transitions Pending to InProgress. Any other status fails so that a
// repeated verification is rejected rather than applied twice.
func (s Status) Verify() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidTransitionError("order", s.String(), "verify")
	}
	return InProgress, nil
}

// Deliver transitions Pending or InProgress to Completed.
func (s Status) Deliver() (Status, error) {
	if s != Pending && s != InProgress {
		return Unknown, errs.NewInvalidTransitionError("order", s.String(), "deliver")
	}
	return Completed, nil
}
