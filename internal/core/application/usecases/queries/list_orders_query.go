package queries

import (
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersFilter narrows the list. Nil fields do not filter.
type ListOrdersFilter struct {
	Status   *order.Status
	Revision *bool
}

// ListOrdersQuery lists the orders visible to the actor, soonest delivery first.
type ListOrdersQuery struct {
	actor  access.Actor
	filter ListOrdersFilter

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(actor access.Actor, filter ListOrdersFilter) (ListOrdersQuery, error) {
	var statusErr error
	if filter.Status != nil {
		statusErr = filter.Status.Validate()
	}
	if err := errors.Join(validateActor(actor), statusErr); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() access.Actor      { return q.actor }
func (q ListOrdersQuery) Filter() ListOrdersFilter { return q.filter }

// OrderSummary is one row of the order list with its work item counters.
type OrderSummary struct {
	ID                 kernel.UUID
	OrderNumber        string
	Status             order.Status
	IsRevision         bool
	OriginalOrderID    *kernel.UUID
	Amount             int64
	OrderDate          time.Time
	DeliveryDate       time.Time
	DeliveryTime       string
	CompletedAt        *time.Time
	TotalTasks         int
	CompletedTasks     int
	MandatoryRemaining int
	IncompleteTotal    int
	OverdueTasks       int
	DaysOld            int
}
