package services

import (
	"fmt"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/pkg/errs"
)

// OrderCoordinator runs the order-level operations that need more than the
// aggregate itself: the gate for delivery and the reconciler for creation.
type OrderCoordinator struct {
	reconciler ServiceReconciler
}

func NewOrderCoordinator(reconciler ServiceReconciler) OrderCoordinator {
	return OrderCoordinator{reconciler: reconciler}
}

// NewOrderRequest carries the input of Create.
type NewOrderRequest struct {
	OrderNumber  string
	OrderDate    time.Time
	DeliveryDate time.Time
	Details      order.Details
	Services     []DesiredQuantity
}

// Create places a new PENDING order with its initial instances. The instances
// are planned by the reconciler from an empty set.
func (c OrderCoordinator) Create(
	actor access.Actor,
	req NewOrderRequest,
	catalogServices map[kernel.UUID]*catalog.Service,
	now time.Time,
) (*order.Order, []Change, error) {
	if err := access.RequireCreator(actor, "create order"); err != nil {
		return nil, nil, err
	}

	o, err := order.NewOrder(kernel.NewUUID(), req.OrderNumber, req.OrderDate, req.DeliveryDate, req.Details, now)
	if err != nil {
		return nil, nil, err
	}
	plan, err := c.reconciler.Plan(o, req.Services, catalogServices, now)
	if err != nil {
		return nil, nil, err
	}
	if err = o.ApplyInstanceChanges(plan.add, plan.remove); err != nil {
		return nil, nil, err
	}
	return o, plan.Changes, nil
}

// Deliver completes o. When work remains the caller must pass acknowledged,
// otherwise a PreconditionError carrying the counts is returned and o is not
// changed. The gate evaluated before delivery is returned.
//
// The status transition is checked before the gate, so delivering a completed
// order is an InvalidTransitionError whether or not it was acknowledged.
//
// Example:
//
//	gate, err := coordinator.Deliver(actor, o, false, now)
//	if errors.Is(err, errs.ErrPrecondition) {
//	    // show gate.MandatoryRemaining and gate.IncompleteTotal, then retry acknowledged
//	}
func (c OrderCoordinator) Deliver(actor access.Actor, o *order.Order, acknowledged bool, now time.Time) (Gate, error) {
	if err := o.RequireEditor(actor, "deliver order"); err != nil {
		return Gate{}, err
	}
	if _, err := o.Status().Deliver(); err != nil {
		return Gate{}, err
	}

	gate := EvaluateGate(o)
	if gate.NeedsAcknowledgment() && !acknowledged {
		return gate, errs.NewPreconditionError(fmt.Sprintf(
			"delivery must be acknowledged: %d mandatory and %d incomplete work items remain",
			gate.MandatoryRemaining, gate.IncompleteTotal))
	}
	if err := o.MarkDelivered(actor, now); err != nil {
		return gate, err
	}
	return gate, nil
}

// ConvertToRevision opens a revision of the delivered order o.
// existingRevisions is the number of revisions o already has; the new order
// number is derived from it.
func (c OrderCoordinator) ConvertToRevision(
	actor access.Actor,
	o *order.Order,
	existingRevisions int,
	instanceIDs []kernel.UUID,
	deliveryDate *time.Time,
	now time.Time,
) (*order.Order, error) {
	number := order.RevisionNumber(o.OrderNumber(), existingRevisions+1)
	return o.ConvertToRevision(actor, kernel.NewUUID(), number, instanceIDs, deliveryDate, now)
}
