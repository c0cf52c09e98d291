package commands

import (
	"context"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
)

// UpdateOrderCommandHandler applies order field edits in one transaction.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle applies the changes in a fixed order. The first failing edit aborts
// the command and nothing is stored.
func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	actor, ch := cmd.Actor(), cmd.Changes()
	return mutateOrder(ctx, h.uowFactory, h.clock, byOrderID(cmd.OrderID()), func(o *order.Order, now time.Time) error {
		if ch.Amount != nil {
			if err := o.UpdateAmount(actor, *ch.Amount); err != nil {
				return err
			}
		}
		if ch.Notes != nil {
			if err := o.UpdateNotes(actor, *ch.Notes); err != nil {
				return err
			}
		}
		if ch.FolderLink != nil {
			if err := o.SetFolderLink(actor, *ch.FolderLink); err != nil {
				return err
			}
		}
		if ch.DeliveryDate != nil || ch.DeliveryTime != nil {
			date := o.DeliveryDate()
			if ch.DeliveryDate != nil {
				date = *ch.DeliveryDate
			}
			if err := o.ExtendDelivery(actor, date, ch.DeliveryTime); err != nil {
				return err
			}
		}
		if ch.Status != nil {
			if err := o.OverrideStatus(actor, *ch.Status, now); err != nil {
				return err
			}
		}
		return nil
	})
}
