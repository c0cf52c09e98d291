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

// DesiredQuantity is how many instances of a service the order should hold.
type DesiredQuantity struct {
	ServiceID kernel.UUID
	Quantity  int
}

// Change is one line of the diff shown before the edit is committed.
// Delta is positive for added and negative for removed instances.
type Change struct {
	ServiceID   kernel.UUID
	ServiceName string
	Delta       int
}

// Plan holds every instance change of one reconciliation. It is computed in
// full before the order is touched.
type Plan struct {
	Changes []Change
	add     []*order.ServiceInstance
	remove  []kernel.UUID
}

// IsEmpty reports whether the plan changes nothing.
func (p Plan) IsEmpty() bool {
	return len(p.Changes) == 0
}

// ServiceReconciler reconciles desired service quantities against the current
// instances of an order. Assigned instances are never removed.
type ServiceReconciler struct{}

func NewServiceReconciler() ServiceReconciler {
	return ServiceReconciler{}
}

// Plan computes the changes without mutating o. services must hold every
// catalog service named in desired; unknown ids fail with ObjectNotFound.
func (r ServiceReconciler) Plan(
	o *order.Order,
	desired []DesiredQuantity,
	services map[kernel.UUID]*catalog.Service,
	now time.Time,
) (Plan, error) {
	if err := o.Validate(); err != nil {
		return Plan{}, err
	}

	var (
		plan    Plan
		handled []kernel.UUID
	)
	for _, d := range desired {
		if err := d.ServiceID.Validate(); err != nil {
			return Plan{}, err
		}
		if kernel.ContainsUUID(handled, d.ServiceID) {
			return Plan{}, errs.NewValueIsInvalidErrorWithCause("serviceInstances",
				fmt.Errorf("service %s is listed more than once", d.ServiceID))
		}
		if d.Quantity < 0 {
			return Plan{}, errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("%d is negative for service %s", d.Quantity, d.ServiceID))
		}
		handled = append(handled, d.ServiceID)

		service, ok := services[d.ServiceID]
		if !ok {
			return Plan{}, errs.NewObjectNotFoundError("service", d.ServiceID)
		}
		if err := r.planService(&plan, service, o.InstancesOf(d.ServiceID), d.Quantity, now); err != nil {
			return Plan{}, err
		}
	}

	// services held by the order but missing from desired are removed entirely
	for _, inst := range o.Instances() {
		id := inst.Service().ID()
		if kernel.ContainsUUID(handled, id) {
			continue
		}
		handled = append(handled, id)
		if err := r.planService(&plan, inst.Service(), o.InstancesOf(id), 0, now); err != nil {
			return Plan{}, err
		}
	}

	return plan, nil
}

// Reconcile plans and, unless dryRun is set, applies the changes to o.
func (r ServiceReconciler) Reconcile(
	actor access.Actor,
	o *order.Order,
	desired []DesiredQuantity,
	services map[kernel.UUID]*catalog.Service,
	dryRun bool,
	now time.Time,
) ([]Change, error) {
	if err := o.RequireEditor(actor, "edit order services"); err != nil {
		return nil, err
	}
	plan, err := r.Plan(o, desired, services, now)
	if err != nil {
		return nil, err
	}
	if dryRun || plan.IsEmpty() {
		return plan.Changes, nil
	}
	if err = o.ApplyInstanceChanges(plan.add, plan.remove); err != nil {
		return nil, err
	}
	return plan.Changes, nil
}

func (r ServiceReconciler) planService(
	plan *Plan,
	service *catalog.Service,
	current []*order.ServiceInstance,
	want int,
	now time.Time,
) error {
	have := len(current)
	switch {
	case want > have:
		for range want - have {
			inst, err := order.NewServiceInstance(kernel.NewUUID(), service, now)
			if err != nil {
				return err
			}
			plan.add = append(plan.add, inst)
		}
	case want < have:
		reduction := have - want
		var free []kernel.UUID
		for i := len(current) - 1; i >= 0; i-- {
			if !current[i].IsAssigned() {
				free = append(free, current[i].ID())
			}
		}
		if reduction > len(free) {
			return errs.NewConflictErrorWithCause("service instance", "cannot remove instances with assigned tasks",
				fmt.Errorf("%s: removing %d of %d instances, only %d are unassigned",
					service.Name(), reduction, have, len(free)))
		}
		plan.remove = append(plan.remove, free[:reduction]...)
	default:
		return nil
	}

	plan.Changes = append(plan.Changes, Change{
		ServiceID:   service.ID(),
		ServiceName: service.Name(),
		Delta:       want - have,
	})
	return nil
}
