package ports

import (
	"context"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
)

// TeamRepository stores team memberships, the source of actor team scopes.
type TeamRepository interface {
	// SaveMembership inserts or replaces the membership of a user in a team.
	SaveMembership(ctx context.Context, membership access.Membership) error

	// MembershipsOfUser returns every membership of the user, active or not.
	MembershipsOfUser(ctx context.Context, userID kernel.UUID) ([]access.Membership, error)
}
