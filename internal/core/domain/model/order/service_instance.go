package order

import (
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/core/domain/model/asking"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var ErrServiceInstanceIsNotConstructed = errors.New("ServiceInstance must be created via NewServiceInstance or RestoreServiceInstance")

// ServiceInstance is one purchased unit of a catalog service on an order.
// It owns exactly one work item matching the service type.
type ServiceInstance struct {
	id         kernel.UUID
	service    *catalog.Service
	createdAt  time.Time
	task       *task.Task
	askingTask *asking.AskingTask
	guard      guard.ConstructorGuard
}

// NewServiceInstance creates an instance together with a fresh work item in its
// initial state.
func NewServiceInstance(id kernel.UUID, service *catalog.Service, now time.Time) (*ServiceInstance, error) {
	if err := errors.Join(id.Validate(), service.Validate()); err != nil {
		return nil, err
	}

	inst := &ServiceInstance{
		id:        id,
		service:   service,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	var err error
	if service.IsAskingService() {
		inst.askingTask, err = asking.NewAskingTask(kernel.NewUUID(), service.IsMandatory())
	} else {
		inst.task, err = task.NewTask(kernel.NewUUID())
	}
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// RestoreServiceInstance rebuilds an instance from storage. Exactly one of t and
// at must be set, matching the service type.
func RestoreServiceInstance(
	id kernel.UUID,
	service *catalog.Service,
	createdAt time.Time,
	t *task.Task,
	at *asking.AskingTask,
) (*ServiceInstance, error) {
	if err := errors.Join(id.Validate(), service.Validate()); err != nil {
		return nil, err
	}

	switch {
	case service.IsAskingService() && at != nil && t == nil:
		if err := at.Validate(); err != nil {
			return nil, err
		}
	case !service.IsAskingService() && t != nil && at == nil:
		if err := t.Validate(); err != nil {
			return nil, err
		}
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("service instance",
			fmt.Errorf("instance %s must own exactly one %s work item", id, service.Type()))
	}

	return &ServiceInstance{
		id:         id,
		service:    service,
		createdAt:  createdAt.UTC(),
		task:       t,
		askingTask: at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (i *ServiceInstance) Validate() error {
	if i == nil {
		return ErrServiceInstanceIsNotConstructed
	}
	return i.guard.Validate(ErrServiceInstanceIsNotConstructed)
}

func (i *ServiceInstance) ID() kernel.UUID                { return i.id }
func (i *ServiceInstance) Service() *catalog.Service      { return i.service }
func (i *ServiceInstance) CreatedAt() time.Time           { return i.createdAt }
func (i *ServiceInstance) Task() *task.Task               { return i.task }
func (i *ServiceInstance) AskingTask() *asking.AskingTask { return i.askingTask }

// HasWorkItem reports whether the instance owns the work item its service needs.
func (i *ServiceInstance) HasWorkItem() bool {
	if i.service.IsAskingService() {
		return i.askingTask != nil
	}
	return i.task != nil
}

// IsAssigned reports whether the work item left its initial state. Assigned
// instances are never removed.
func (i *ServiceInstance) IsAssigned() bool {
	if i.askingTask != nil {
		return i.askingTask.HasLeftInitialState()
	}
	return i.task != nil && i.task.HasLeftInitialState()
}

// IsMandatory reports whether the work item gates delivery. Asking tasks keep
// the flag they inherited when they were created.
func (i *ServiceInstance) IsMandatory() bool {
	if i.askingTask != nil {
		return i.askingTask.IsMandatory()
	}
	return i.service.IsMandatory()
}

// CompletedAt returns the completion time of the work item, or nil.
func (i *ServiceInstance) CompletedAt() *time.Time {
	if i.askingTask != nil {
		return i.askingTask.CompletedAt()
	}
	if i.task != nil {
		return i.task.CompletedAt()
	}
	return nil
}

// IsCompleted reports whether the work item is completed.
func (i *ServiceInstance) IsCompleted() bool {
	return i.CompletedAt() != nil
}

// IsOverdue reports whether the instance owns an overdue task.
func (i *ServiceInstance) IsOverdue(now time.Time) bool {
	return i.task != nil && i.task.IsOverdue(now)
}
