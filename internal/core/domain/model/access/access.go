// Package access models who is acting on the engine. Every lifecycle operation
// receives an Actor; nothing reads roles or sessions from ambient state.
package access

import (
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
)

// Actor is the authorization capability handed to engine operations.
type Actor interface {
	ID() kernel.UUID
	// IsAdmin reports whether the actor bypasses team checks.
	IsAdmin() bool
	// CanEdit reports whether the actor may edit order-level fields of
	// some order (admins and leaders of an active team).
	CanEdit() bool
	// LeadsTeam reports whether the actor leads teamID through an active membership.
	LeadsTeam(teamID kernel.UUID) bool
	// CanCreateOrders reports whether the actor may place new orders.
	CanCreateOrders() bool
	// TeamIDs lists the teams the actor is an active member of.
	TeamIDs() []kernel.UUID
}

// InTeam reports whether actor may work on items owned by teamID.
func InTeam(actor Actor, teamID kernel.UUID) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || kernel.ContainsUUID(actor.TeamIDs(), teamID)
}

// RequireLeaderOf fails with an AuthorizationError unless actor is an admin or
// leads one of teamIDs. An empty teamIDs leaves the action to admins.
func RequireLeaderOf(actor Actor, teamIDs []kernel.UUID, action string) error {
	if actor != nil && actor.IsAdmin() {
		return nil
	}
	if actor != nil && actor.CanEdit() {
		for _, id := range teamIDs {
			if actor.LeadsTeam(id) {
				return nil
			}
		}
	}
	return errs.NewAuthorizationError(actorName(actor), action)
}

// RequireAdmin fails with an AuthorizationError unless actor is an admin.
func RequireAdmin(actor Actor, action string) error {
	if actor == nil || !actor.IsAdmin() {
		return errs.NewAuthorizationError(actorName(actor), action)
	}
	return nil
}

// RequireCreator fails with an AuthorizationError unless actor may create orders.
func RequireCreator(actor Actor, action string) error {
	if actor == nil || !actor.CanCreateOrders() {
		return errs.NewAuthorizationError(actorName(actor), action)
	}
	return nil
}

// RequireTeam fails with an AuthorizationError unless actor belongs to teamID.
func RequireTeam(actor Actor, teamID kernel.UUID, action string) error {
	if !InTeam(actor, teamID) {
		return errs.NewAuthorizationError(actorName(actor), action)
	}
	return nil
}

func actorName(actor Actor) string {
	if actor == nil {
		return "anonymous"
	}
	return actor.ID().String()
}
