package commands

import (
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places a new order with its initial service quantities.
// Field rules (dates, amount, order number) are checked by the order itself.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, "ORD-1042", orderDate, deliveryDate,
//	    order.Details{Amount: 15000, FolderLink: link},
//	    []services.DesiredQuantity{{ServiceID: retouchID, Quantity: 2}})
type CreateOrderCommand struct {
	actor        access.Actor
	orderNumber  string
	orderDate    time.Time
	deliveryDate time.Time
	details      order.Details
	services     []services.DesiredQuantity

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	actor access.Actor,
	orderNumber string,
	orderDate time.Time,
	deliveryDate time.Time,
	details order.Details,
	desired []services.DesiredQuantity,
) (CreateOrderCommand, error) {
	if err := validateActor(actor); err != nil {
		return CreateOrderCommand{}, err
	}
	return CreateOrderCommand{
		actor:        actor,
		orderNumber:  orderNumber,
		orderDate:    orderDate,
		deliveryDate: deliveryDate,
		details:      details,
		services:     desired,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() access.Actor                  { return c.actor }
func (c CreateOrderCommand) OrderNumber() string                  { return c.orderNumber }
func (c CreateOrderCommand) OrderDate() time.Time                 { return c.orderDate }
func (c CreateOrderCommand) DeliveryDate() time.Time              { return c.deliveryDate }
func (c CreateOrderCommand) Details() order.Details               { return c.details }
func (c CreateOrderCommand) Services() []services.DesiredQuantity { return c.services }
