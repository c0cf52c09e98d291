package order

import (
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
)

var ErrRevisionSelectionIsRequired = errs.NewValueIsRequiredErrorWithCause("instanceIds",
	errors.New("select at least one service instance for rework"))

// RevisionNumber derives the order number of the n-th revision of original.
func RevisionNumber(original string, n int) string {
	return fmt.Sprintf("%s-R%d", original, n)
}

// ConvertToRevision creates a new PENDING order for rework on a delivered
// order. Only the selected instances are cloned, each with a fresh work item.
// The delivered order is not modified.
//
// The revision keeps the original order date. It is due on deliveryDate when
// given and on the original delivery date otherwise, so that rework deadlines
// can be set in the future.
func (o *Order) ConvertToRevision(
	actor access.Actor,
	revisionID kernel.UUID,
	revisionNumber string,
	instanceIDs []kernel.UUID,
	deliveryDate *time.Time,
	now time.Time,
) (*Order, error) {
	if err := o.RequireEditor(actor, "convert to revision"); err != nil {
		return nil, err
	}
	if o.status != Completed {
		return nil, errs.NewInvalidTransitionError("order", o.status.String(), "convert to revision")
	}
	if len(instanceIDs) == 0 {
		return nil, ErrRevisionSelectionIsRequired
	}

	clones := make([]*ServiceInstance, 0, len(instanceIDs))
	seen := make([]kernel.UUID, 0, len(instanceIDs))
	for _, id := range instanceIDs {
		if kernel.ContainsUUID(seen, id) {
			return nil, errs.NewValueIsInvalidErrorWithCause("instanceIds", fmt.Errorf("%s is selected twice", id))
		}
		seen = append(seen, id)

		src, err := o.Instance(id)
		if err != nil {
			return nil, err
		}
		clone, err := NewServiceInstance(kernel.NewUUID(), src.Service(), now)
		if err != nil {
			return nil, err
		}
		clones = append(clones, clone)
	}

	due := o.deliveryDate
	if deliveryDate != nil {
		due = *deliveryDate
	}
	revision, err := NewOrder(revisionID, revisionNumber, o.orderDate, due, Details{
		DeliveryTime: o.deliveryTime,
		FolderLink:   o.folderLink,
	}, now)
	if err != nil {
		return nil, err
	}
	originalID := o.id
	revision.isRevision = true
	revision.originalOrderID = &originalID
	revision.instances = clones
	return revision, nil
}
