package commands

import (
	"errors"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var (
	ErrUpdateOrderCommandIsNotConstructed = errors.New(
		"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
	)
	ErrNothingToUpdate = errs.NewValueIsRequiredErrorWithCause("changes", errors.New("no field to update"))
)

// OrderChanges lists the order fields to edit. Nil fields are left alone.
type OrderChanges struct {
	Amount       *int64
	Notes        *string
	DeliveryDate *time.Time
	DeliveryTime *string
	FolderLink   *string
	// Status is an admin override.
	Status *order.Status
}

func (c OrderChanges) isEmpty() bool {
	return c.Amount == nil && c.Notes == nil && c.DeliveryDate == nil &&
		c.DeliveryTime == nil && c.FolderLink == nil && c.Status == nil
}

// UpdateOrderCommand edits order-level fields.
type UpdateOrderCommand struct {
	actor   access.Actor
	orderID kernel.UUID
	changes OrderChanges

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(actor access.Actor, orderID kernel.UUID, changes OrderChanges) (UpdateOrderCommand, error) {
	var emptyErr error
	if changes.isEmpty() {
		emptyErr = ErrNothingToUpdate
	}
	if err := errors.Join(validateActor(actor), orderID.Validate(), emptyErr); err != nil {
		return UpdateOrderCommand{}, err
	}
	return UpdateOrderCommand{
		actor:   actor,
		orderID: orderID,
		changes: changes,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) Actor() access.Actor   { return c.actor }
func (c UpdateOrderCommand) OrderID() kernel.UUID  { return c.orderID }
func (c UpdateOrderCommand) Changes() OrderChanges { return c.changes }
