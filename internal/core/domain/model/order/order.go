package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

const deliveryTimeLayout = "15:04"

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	ErrOrderNumberIsRequired  = errs.NewValueIsRequiredError("orderNumber")
	ErrFolderLinkIsRequired   = errs.NewPreconditionError("order must have a folder link before tasks are assigned")
	ErrInstanceAlreadyOnOrder = errors.New("service instance is already on the order")
)

// Order is the aggregate root of the lifecycle engine. It owns its service
// instances and through them every task and asking task of the order.
//
// Order follows these invariants:
//   - deliveryDate is after orderDate
//   - status COMPLETED implies completedAt is set
//   - amount is never negative
//   - revisionCompletedAt is only set on revision orders, and only once
//
// version is the optimistic concurrency token; repositories compare it on
// update and call AdvanceVersion after a successful write.
type Order struct {
	id          kernel.UUID
	orderNumber string
	status      Status

	isRevision      bool
	originalOrderID *kernel.UUID

	// amount is kept in minor currency units
	amount int64

	orderDate    time.Time
	deliveryDate time.Time
	// deliveryTime is an optional "HH:MM" wall clock time on deliveryDate
	deliveryTime string

	completedAt         *time.Time
	revisionCompletedAt *time.Time

	folderLink string
	notes      string

	statusOverridden bool
	version          int
	createdAt        time.Time

	instances []*ServiceInstance

	guard guard.ConstructorGuard
}

// Details carries the optional fields of a new order.
type Details struct {
	Amount       int64
	DeliveryTime string
	FolderLink   string
	Notes        string
}

// NewOrder creates a PENDING order without instances. Instances are added by
// the service-instance reconciler.
//
//	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1042", orderDate, deliveryDate,
//	    order.Details{Amount: 150_00, FolderLink: "https://drive/x"}, now)
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	orderDate time.Time,
	deliveryDate time.Time,
	details Details,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setDates(orderDate, deliveryDate),
		o.setAmount(details.Amount),
		o.setDeliveryTime(details.DeliveryTime),
	); err != nil {
		return nil, err
	}
	o.folderLink = strings.TrimSpace(details.FolderLink)
	o.notes = strings.TrimSpace(details.Notes)

	return o, nil
}

// Snapshot carries the stored state of an order.
type Snapshot struct {
	ID                  kernel.UUID
	OrderNumber         string
	Status              Status
	IsRevision          bool
	OriginalOrderID     *kernel.UUID
	Amount              int64
	OrderDate           time.Time
	DeliveryDate        time.Time
	DeliveryTime        string
	CompletedAt         *time.Time
	RevisionCompletedAt *time.Time
	FolderLink          string
	Notes               string
	StatusOverridden    bool
	Version             int
	CreatedAt           time.Time
	Instances           []*ServiceInstance
}

// RestoreOrder rebuilds an order from storage, checking the same invariants as
// NewOrder plus the status and revision consistency rules.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:              s.Status,
		isRevision:          s.IsRevision,
		originalOrderID:     s.OriginalOrderID,
		completedAt:         s.CompletedAt,
		revisionCompletedAt: s.RevisionCompletedAt,
		folderLink:          s.FolderLink,
		notes:               s.Notes,
		statusOverridden:    s.StatusOverridden,
		version:             s.Version,
		createdAt:           s.CreatedAt.UTC(),
		guard:               guard.NewConstructorGuard(),
	}

	var consistencyErr error
	switch {
	case s.Status == Completed && s.CompletedAt == nil:
		consistencyErr = errs.NewValueIsRequiredErrorWithCause("completedAt",
			errors.New("completed orders must carry completedAt"))
	case s.RevisionCompletedAt != nil && !s.IsRevision:
		consistencyErr = errs.NewValueIsInvalidErrorWithCause("revisionCompletedAt",
			errors.New("only revision orders can complete a revision"))
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setOrderNumber(s.OrderNumber),
		s.Status.Validate(),
		o.setDates(s.OrderDate, s.DeliveryDate),
		o.setAmount(s.Amount),
		o.setDeliveryTime(s.DeliveryTime),
		consistencyErr,
	); err != nil {
		return nil, err
	}

	for _, inst := range s.Instances {
		if err := o.addInstance(inst); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) OrderNumber() string             { return o.orderNumber }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) IsRevision() bool                { return o.isRevision }
func (o *Order) OriginalOrderID() *kernel.UUID   { return o.originalOrderID }
func (o *Order) Amount() int64                   { return o.amount }
func (o *Order) OrderDate() time.Time            { return o.orderDate }
func (o *Order) DeliveryDate() time.Time         { return o.deliveryDate }
func (o *Order) DeliveryTime() string            { return o.deliveryTime }
func (o *Order) CompletedAt() *time.Time         { return o.completedAt }
func (o *Order) RevisionCompletedAt() *time.Time { return o.revisionCompletedAt }
func (o *Order) FolderLink() string              { return o.folderLink }
func (o *Order) Notes() string                   { return o.notes }
func (o *Order) StatusOverridden() bool          { return o.statusOverridden }
func (o *Order) Version() int                    { return o.version }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) Instances() []*ServiceInstance   { return slices.Clone(o.instances) }
func (o *Order) HasFolderLink() bool             { return o.folderLink != "" }
func (o *Order) IsCompleted() bool               { return o.status == Completed }
func (o *Order) IsRevisionCompleted() bool       { return o.revisionCompletedAt != nil }
func (o *Order) InstanceCount() int              { return len(o.instances) }

// InstancesOf returns the instances of one catalog service.
func (o *Order) InstancesOf(id kernel.UUID) []*ServiceInstance {
	var out []*ServiceInstance
	for _, inst := range o.instances {
		if inst.Service().ID().IsEqual(id) {
			out = append(out, inst)
		}
	}
	return out
}

// AdvanceVersion is called by repositories once the order was written with the
// current version.
func (o *Order) AdvanceVersion() {
	o.version++
}

// Instance finds an instance by id.
func (o *Order) Instance(id kernel.UUID) (*ServiceInstance, error) {
	for _, inst := range o.instances {
		if inst.ID().IsEqual(id) {
			return inst, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("service instance", id)
}

// InstanceByTaskID finds the instance owning the task.
func (o *Order) InstanceByTaskID(taskID kernel.UUID) (*ServiceInstance, error) {
	for _, inst := range o.instances {
		if inst.Task() != nil && inst.Task().ID().IsEqual(taskID) {
			return inst, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("task", taskID)
}

// InstanceByAskingTaskID finds the instance owning the asking task.
func (o *Order) InstanceByAskingTaskID(askingTaskID kernel.UUID) (*ServiceInstance, error) {
	for _, inst := range o.instances {
		if inst.AskingTask() != nil && inst.AskingTask().ID().IsEqual(askingTaskID) {
			return inst, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("asking task", askingTaskID)
}

// DeriveStatus suggests a status from the work items. COMPLETED is kept,
// otherwise any started work suggests IN_PROGRESS.
func (o *Order) DeriveStatus() Status {
	if o.status == Completed {
		return Completed
	}
	for _, inst := range o.instances {
		if inst.IsAssigned() {
			return InProgress
		}
	}
	return o.status
}

// refreshStatus is run after every work item mutation. It only promotes
// PENDING to IN_PROGRESS and never touches an overridden status.
func (o *Order) refreshStatus() {
	if o.statusOverridden || o.status != Pending {
		return
	}
	if suggested := o.DeriveStatus(); suggested == InProgress {
		o.status = InProgress
	}
}

// RequireEditor fails with an AuthorizationError unless actor may edit o:
// admins, and leaders of a team owning one of its services.
func (o *Order) RequireEditor(actor access.Actor, action string) error {
	teams := make([]kernel.UUID, 0, len(o.instances))
	for _, inst := range o.instances {
		if id := inst.Service().TeamID(); !kernel.ContainsUUID(teams, id) {
			teams = append(teams, id)
		}
	}
	return access.RequireLeaderOf(actor, teams, action)
}

// Verify confirms a freshly created order: every instance must own its work item.
func (o *Order) Verify(actor access.Actor) error {
	if err := o.RequireEditor(actor, "verify order"); err != nil {
		return err
	}
	next, err := o.status.Verify()
	if err != nil {
		return err
	}
	for _, inst := range o.instances {
		if !inst.HasWorkItem() {
			return errs.NewPreconditionError(fmt.Sprintf("service instance %s has no work item", inst.ID()))
		}
	}

	o.status = next
	return nil
}

// MarkDelivered completes the order. Gate acknowledgment is checked by the caller.
func (o *Order) MarkDelivered(actor access.Actor, now time.Time) error {
	if err := o.RequireEditor(actor, "deliver order"); err != nil {
		return err
	}
	next, err := o.status.Deliver()
	if err != nil {
		return err
	}

	completed := now.UTC()
	o.status = next
	o.completedAt = &completed
	return nil
}

// CompleteRevision marks a revision order as reworked. It can happen once.
func (o *Order) CompleteRevision(actor access.Actor, now time.Time) error {
	if err := o.RequireEditor(actor, "complete revision"); err != nil {
		return err
	}
	if !o.isRevision {
		return errs.NewPreconditionError("only revision orders can complete a revision")
	}
	if o.revisionCompletedAt != nil {
		return errs.NewInvalidTransitionError("revision", "REVISION_COMPLETED", "complete revision")
	}

	at := now.UTC()
	o.revisionCompletedAt = &at
	return nil
}

// ExtendDelivery moves the delivery date, and the delivery time when newTime
// is given. Completed orders can still be edited.
func (o *Order) ExtendDelivery(actor access.Actor, newDate time.Time, newTime *string) error {
	if err := o.RequireEditor(actor, "extend delivery"); err != nil {
		return err
	}
	if err := o.checkDates(o.orderDate, newDate); err != nil {
		return err
	}
	if newTime != nil {
		t, err := normalizeDeliveryTime(*newTime)
		if err != nil {
			return err
		}
		o.deliveryTime = t
	}
	o.deliveryDate = newDate.UTC()
	return nil
}

func (o *Order) UpdateAmount(actor access.Actor, amount int64) error {
	if err := o.RequireEditor(actor, "update amount"); err != nil {
		return err
	}
	return o.setAmount(amount)
}

func (o *Order) UpdateNotes(actor access.Actor, notes string) error {
	if err := o.RequireEditor(actor, "update notes"); err != nil {
		return err
	}
	o.notes = strings.TrimSpace(notes)
	return nil
}

// SetFolderLink replaces the folder link. An empty link clears it.
func (o *Order) SetFolderLink(actor access.Actor, link string) error {
	if err := o.RequireEditor(actor, "set folder link"); err != nil {
		return err
	}
	o.folderLink = strings.TrimSpace(link)
	return nil
}

// OverrideStatus lets an admin force any status. The override sticks: the
// status hook stops promoting the order afterwards.
func (o *Order) OverrideStatus(actor access.Actor, status Status, now time.Time) error {
	if err := access.RequireAdmin(actor, "override order status"); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}

	switch {
	case status == Completed && o.completedAt == nil:
		at := now.UTC()
		o.completedAt = &at
	case status != Completed:
		o.completedAt = nil
	}
	o.status = status
	o.statusOverridden = true
	return nil
}

// ApplyInstanceChanges adds and removes instances as one step: nothing is
// changed unless every removal targets an unassigned instance of this order.
// Callers authorize the change; the reconciler requires an editor and order
// creation requires an order creator.
func (o *Order) ApplyInstanceChanges(add []*ServiceInstance, remove []kernel.UUID) error {
	for _, id := range remove {
		inst, err := o.Instance(id)
		if err != nil {
			return err
		}
		if inst.IsAssigned() {
			return errs.NewConflictError("service instance", "cannot remove instances with assigned tasks")
		}
	}
	for _, inst := range add {
		if err := inst.Validate(); err != nil {
			return err
		}
		if _, err := o.Instance(inst.ID()); err == nil {
			return fmt.Errorf("%w: %s", ErrInstanceAlreadyOnOrder, inst.ID())
		}
	}

	o.instances = slices.DeleteFunc(o.instances, func(inst *ServiceInstance) bool {
		return kernel.ContainsUUID(remove, inst.ID())
	})
	o.instances = append(o.instances, add...)
	return nil
}

func (o *Order) addInstance(inst *ServiceInstance) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	if _, err := o.Instance(inst.ID()); err == nil {
		return fmt.Errorf("%w: %s", ErrInstanceAlreadyOnOrder, inst.ID())
	}
	o.instances = append(o.instances, inst)
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrOrderNumberIsRequired
	}
	o.orderNumber = number
	return nil
}

func (o *Order) setDates(orderDate, deliveryDate time.Time) error {
	if err := o.checkDates(orderDate, deliveryDate); err != nil {
		return err
	}
	o.orderDate = orderDate.UTC()
	o.deliveryDate = deliveryDate.UTC()
	return nil
}

func (o *Order) checkDates(orderDate, deliveryDate time.Time) error {
	if orderDate.IsZero() {
		return errs.NewValueIsRequiredError("orderDate")
	}
	if deliveryDate.IsZero() {
		return errs.NewValueIsRequiredError("deliveryDate")
	}
	if !deliveryDate.After(orderDate) {
		return errs.NewValueIsInvalidErrorWithCause("deliveryDate",
			fmt.Errorf("%s is not after order date %s", deliveryDate.Format(time.DateOnly), orderDate.Format(time.DateOnly)))
	}
	return nil
}

func (o *Order) setAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amount))
	}
	o.amount = amount
	return nil
}

func (o *Order) setDeliveryTime(value string) error {
	t, err := normalizeDeliveryTime(value)
	if err != nil {
		return err
	}
	o.deliveryTime = t
	return nil
}

func normalizeDeliveryTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	parsed, err := time.Parse(deliveryTimeLayout, value)
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("deliveryTime", fmt.Errorf("%q is not HH:MM", value))
	}
	return parsed.Format(deliveryTimeLayout), nil
}
