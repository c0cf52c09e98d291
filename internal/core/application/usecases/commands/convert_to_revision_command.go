package commands

import (
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/guard"
)

var ErrConvertToRevisionCommandIsNotConstructed = errors.New(
	"ConvertToRevisionCommand must be created via NewConvertToRevisionCommand constructor",
)

// ConvertToRevisionCommand opens a revision order for the selected service
// instances of a delivered order.
type ConvertToRevisionCommand struct {
	actor       access.Actor
	orderID     kernel.UUID
	instanceIDs []kernel.UUID
	// deliveryDate, when set, replaces the original delivery date.
	deliveryDate *time.Time

	guard guard.ConstructorGuard
}

func NewConvertToRevisionCommand(
	actor access.Actor,
	orderID kernel.UUID,
	instanceIDs []kernel.UUID,
	deliveryDate *time.Time,
) (ConvertToRevisionCommand, error) {
	var selectionErr error
	if len(instanceIDs) == 0 {
		selectionErr = order.ErrRevisionSelectionIsRequired
	}
	if err := errors.Join(validateActor(actor), orderID.Validate(), selectionErr, validateIDs(instanceIDs)); err != nil {
		return ConvertToRevisionCommand{}, err
	}
	return ConvertToRevisionCommand{
		actor:        actor,
		orderID:      orderID,
		instanceIDs:  instanceIDs,
		deliveryDate: deliveryDate,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ConvertToRevisionCommand) Validate() error {
	return c.guard.Validate(ErrConvertToRevisionCommandIsNotConstructed)
}

func (c ConvertToRevisionCommand) Actor() access.Actor        { return c.actor }
func (c ConvertToRevisionCommand) OrderID() kernel.UUID       { return c.orderID }
func (c ConvertToRevisionCommand) InstanceIDs() []kernel.UUID { return c.instanceIDs }
func (c ConvertToRevisionCommand) DeliveryDate() *time.Time   { return c.deliveryDate }
