package access

import (
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var ErrMembershipIsNotConstructed = errors.New("Membership must be created via NewMembership constructor")

// Membership links a user to a team. Inactive memberships grant nothing.
type Membership struct {
	teamID   kernel.UUID
	userID   kernel.UUID
	isLeader bool
	isActive bool
	guard    guard.ConstructorGuard
}

func NewMembership(teamID, userID kernel.UUID, isLeader, isActive bool) (Membership, error) {
	if err := errors.Join(teamID.Validate(), userID.Validate()); err != nil {
		return Membership{}, err
	}
	return Membership{
		teamID:   teamID,
		userID:   userID,
		isLeader: isLeader,
		isActive: isActive,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (m Membership) Validate() error {
	return m.guard.Validate(ErrMembershipIsNotConstructed)
}

func (m Membership) TeamID() kernel.UUID { return m.teamID }
func (m Membership) UserID() kernel.UUID { return m.userID }
func (m Membership) IsLeader() bool      { return m.isLeader }
func (m Membership) IsActive() bool      { return m.isActive }
