package commands

import (
	"errors"
	"fmt"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrOrderActionCommandIsNotConstructed = errors.New(
	"OrderActionCommand must be created via NewOrderActionCommand constructor",
)

// OrderAction is a parameterless order transition.
type OrderAction int

const (
	UnknownOrderAction OrderAction = iota
	// VerifyOrder moves a PENDING order to IN_PROGRESS.
	VerifyOrder
	// CompleteRevision marks a revision order as reworked.
	CompleteRevision
)

func (a OrderAction) String() string {
	switch a {
	case VerifyOrder:
		return "verify"
	case CompleteRevision:
		return "complete-revision"
	default:
		return "unknown"
	}
}

// OrderActionCommand runs an OrderAction on one order.
type OrderActionCommand struct {
	actor   access.Actor
	orderID kernel.UUID
	action  OrderAction

	guard guard.ConstructorGuard
}

func NewOrderActionCommand(actor access.Actor, orderID kernel.UUID, action OrderAction) (OrderActionCommand, error) {
	var actionErr error
	if action != VerifyOrder && action != CompleteRevision {
		actionErr = errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not an order action", action))
	}
	if err := errors.Join(validateActor(actor), orderID.Validate(), actionErr); err != nil {
		return OrderActionCommand{}, err
	}
	return OrderActionCommand{
		actor:   actor,
		orderID: orderID,
		action:  action,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c OrderActionCommand) Validate() error {
	return c.guard.Validate(ErrOrderActionCommandIsNotConstructed)
}

func (c OrderActionCommand) Actor() access.Actor  { return c.actor }
func (c OrderActionCommand) OrderID() kernel.UUID { return c.orderID }
func (c OrderActionCommand) Action() OrderAction  { return c.action }
