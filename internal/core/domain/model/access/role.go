package access

import (
	"fmt"

	"orderdesk/internal/pkg/errs"
)

// Role is the coarse account role. Team leadership is carried by memberships.
type Role int

const (
	UnknownRole Role = iota
	Admin
	OrderCreator
	Member
)

var roleNames = map[Role]string{
	Admin:        "ADMIN",
	OrderCreator: "ORDER_CREATOR",
	Member:       "MEMBER",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "UNKNOWN"
}

func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ParseRole maps the wire name back to a Role.
func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}
