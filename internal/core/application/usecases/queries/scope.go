// Package queries contains the read side: order detail, the role-scoped order
// list and the overdue task list. List queries run raw SQL against the tables
// written by the postgres adapters.
package queries

import (
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"

	"github.com/lib/pq"
)

var ErrActorIsRequired = errs.NewValueIsRequiredError("actor")

// seesAllOrders reports whether actor is exempt from team scoping. Admins and
// order creators see every order; everyone else sees orders that hold a
// service of one of their teams.
func seesAllOrders(actor access.Actor) bool {
	return actor.IsAdmin() || actor.CanCreateOrders()
}

// teamIDArray renders the actor's teams for `= ANY(?::uuid[])`.
func teamIDArray(actor access.Actor) any {
	ids := actor.TeamIDs()
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	return pq.Array(raw)
}

// canSee applies the list scope to a loaded order.
func canSee(actor access.Actor, o *order.Order) bool {
	if seesAllOrders(actor) {
		return true
	}
	for _, inst := range o.Instances() {
		if access.InTeam(actor, inst.Service().TeamID()) {
			return true
		}
	}
	return false
}

func validateActor(actor access.Actor) error {
	if actor == nil {
		return ErrActorIsRequired
	}
	return nil
}
