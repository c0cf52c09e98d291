package asking

import (
	"fmt"

	"orderdesk/internal/pkg/errs"
)

// Stage is a step of the client-communication workflow. Stages are ordered.
type Stage int

const (
	UnknownStage Stage = iota
	Asked
	Shared
	Verified
	InformedTeam
)

// FinalStage is the stage an asking task must reach before it can be completed.
const FinalStage = InformedTeam

var stageNames = map[Stage]string{
	Asked:        "ASKED",
	Shared:       "SHARED",
	Verified:     "VERIFIED",
	InformedTeam: "INFORMED_TEAM",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Stage) Validate() error {
	if _, ok := stageNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// ParseStage maps the wire name back to a Stage.
func ParseStage(name string) (Stage, error) {
	for s, n := range stageNames {
		if n == name {
			return s, nil
		}
	}
	return UnknownStage, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a valid stage", name))
}

// Next returns the stage after s. The final stage is its own successor.
func (s Stage) Next() Stage {
	if s >= FinalStage {
		return FinalStage
	}
	return s + 1
}

// CanMoveTo reports whether target is s itself or the stage directly after it.
func (s Stage) CanMoveTo(target Stage) bool {
	if target.Validate() != nil || s.Validate() != nil {
		return false
	}
	return target == s || target == s+1
}
