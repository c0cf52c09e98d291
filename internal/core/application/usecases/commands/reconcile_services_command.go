package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/pkg/guard"
)

var ErrReconcileServicesCommandIsNotConstructed = errors.New(
	"ReconcileServicesCommand must be created via NewReconcileServicesCommand constructor",
)

// ReconcileServicesCommand edits the service quantities of an order. With
// dryRun set only the diff is computed.
type ReconcileServicesCommand struct {
	actor   access.Actor
	orderID kernel.UUID
	desired []services.DesiredQuantity
	dryRun  bool

	guard guard.ConstructorGuard
}

func NewReconcileServicesCommand(
	actor access.Actor,
	orderID kernel.UUID,
	desired []services.DesiredQuantity,
	dryRun bool,
) (ReconcileServicesCommand, error) {
	if err := errors.Join(validateActor(actor), orderID.Validate()); err != nil {
		return ReconcileServicesCommand{}, err
	}
	return ReconcileServicesCommand{
		actor:   actor,
		orderID: orderID,
		desired: desired,
		dryRun:  dryRun,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileServicesCommand) Validate() error {
	return c.guard.Validate(ErrReconcileServicesCommandIsNotConstructed)
}

func (c ReconcileServicesCommand) Actor() access.Actor                 { return c.actor }
func (c ReconcileServicesCommand) OrderID() kernel.UUID                { return c.orderID }
func (c ReconcileServicesCommand) Desired() []services.DesiredQuantity { return c.desired }
func (c ReconcileServicesCommand) DryRun() bool                        { return c.dryRun }
