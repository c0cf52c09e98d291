package access

import (
	"errors"

	"orderdesk/internal/core/domain/model/kernel"
)

// Principal is the Actor built from an authenticated user, their role and their
// team memberships.
type Principal struct {
	id       kernel.UUID
	role     Role
	teamIDs  []kernel.UUID
	ledTeams []kernel.UUID
}

// NewPrincipal keeps only active memberships that belong to userID.
func NewPrincipal(userID kernel.UUID, role Role, memberships []Membership) (*Principal, error) {
	if err := errors.Join(userID.Validate(), role.Validate()); err != nil {
		return nil, err
	}

	p := &Principal{id: userID, role: role}
	for _, m := range memberships {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if !m.IsActive() || !m.UserID().IsEqual(userID) {
			continue
		}
		if !kernel.ContainsUUID(p.teamIDs, m.TeamID()) {
			p.teamIDs = append(p.teamIDs, m.TeamID())
		}
		if m.IsLeader() && !kernel.ContainsUUID(p.ledTeams, m.TeamID()) {
			p.ledTeams = append(p.ledTeams, m.TeamID())
		}
	}
	return p, nil
}

func (p *Principal) ID() kernel.UUID { return p.id }
func (p *Principal) Role() Role      { return p.role }
func (p *Principal) IsAdmin() bool   { return p.role == Admin }

func (p *Principal) CanEdit() bool {
	return p.role == Admin || len(p.ledTeams) > 0
}

func (p *Principal) LeadsTeam(teamID kernel.UUID) bool {
	return kernel.ContainsUUID(p.ledTeams, teamID)
}

func (p *Principal) CanCreateOrders() bool {
	return p.role == Admin || p.role == OrderCreator
}

func (p *Principal) TeamIDs() []kernel.UUID {
	out := make([]kernel.UUID, len(p.teamIDs))
	copy(out, p.teamIDs)
	return out
}
