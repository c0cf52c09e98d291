package queries

import (
	"errors"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads one order with its work items, statistics and delivery gate.
//
// Example:
//
//	query, err := NewGetOrderQuery(actor, orderID)
//	view, err := handler.Handle(ctx, query)
//	if view.Gate.NeedsAcknowledgment() {
//	    // warn before delivery
//	}
type GetOrderQuery struct {
	actor   access.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor access.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(validateActor(actor), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() access.Actor  { return q.actor }
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
