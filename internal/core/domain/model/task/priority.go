package task

import (
	"fmt"

	"orderdesk/internal/pkg/errs"
)

// Priority orders assigned work. The zero value means "not set" and is only valid
// on unassigned tasks.
type Priority int

const (
	NoPriority Priority = iota
	Low
	Medium
	High
	Urgent
)

var priorityNames = map[Priority]string{
	Low:    "LOW",
	Medium: "MEDIUM",
	High:   "HIGH",
	Urgent: "URGENT",
}

func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return ""
}

func (p Priority) Validate() error {
	if _, ok := priorityNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// ParsePriority maps LOW, MEDIUM, HIGH and URGENT to a Priority.
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return NoPriority, errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a valid priority", s))
}
