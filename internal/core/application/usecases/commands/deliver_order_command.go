package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// DeliverOrderCommand delivers an order. acknowledged confirms that the caller
// saw the remaining mandatory and incomplete counts.
type DeliverOrderCommand struct {
	actor        access.Actor
	orderID      kernel.UUID
	acknowledged bool

	guard guard.ConstructorGuard
}

func NewDeliverOrderCommand(actor access.Actor, orderID kernel.UUID, acknowledged bool) (DeliverOrderCommand, error) {
	if err := errors.Join(validateActor(actor), orderID.Validate()); err != nil {
		return DeliverOrderCommand{}, err
	}
	return DeliverOrderCommand{
		actor:        actor,
		orderID:      orderID,
		acknowledged: acknowledged,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

func (c DeliverOrderCommand) Actor() access.Actor  { return c.actor }
func (c DeliverOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c DeliverOrderCommand) Acknowledged() bool   { return c.acknowledged }
