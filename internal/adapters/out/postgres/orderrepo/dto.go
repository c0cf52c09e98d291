// Package orderrepo persists the order aggregate: the order row, its service
// instances and the task or asking task each instance owns.
package orderrepo

import (
	"time"

	"orderdesk/internal/adapters/out/postgres/catalogrepo"
	"orderdesk/internal/core/domain/model/asking"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderDTO is the order row. Version backs the optimistic concurrency check.
type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber         string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status              int        `gorm:"type:smallint;not null;index"`
	IsRevision          bool       `gorm:"not null;default:false"`
	OriginalOrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Amount              int64      `gorm:"not null;default:0"`
	OrderDate           time.Time  `gorm:"not null"`
	DeliveryDate        time.Time  `gorm:"not null;index"`
	DeliveryTime        string     `gorm:"type:varchar(5)"`
	CompletedAt         *time.Time
	RevisionCompletedAt *time.Time
	FolderLink          string `gorm:"type:text"`
	Notes               string `gorm:"type:text"`
	StatusOverridden    bool   `gorm:"not null;default:false"`
	Version             int    `gorm:"not null;default:0"`
	CreatedAt           time.Time

	Instances []ServiceInstanceDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ServiceInstanceDTO keeps the instance position so removals from the end of
// the order survive a reload.
type ServiceInstanceDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time

	Service    catalogrepo.ServiceDTO `gorm:"foreignKey:ServiceID;constraint:OnDelete:RESTRICT"`
	Task       *TaskDTO               `gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE"`
	AskingTask *AskingTaskDTO         `gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE"`
}

func (ServiceInstanceDTO) TableName() string {
	return "service_instances"
}

type TaskDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InstanceID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Status          int        `gorm:"type:smallint;not null;index"`
	AssignedUserID  *uuid.UUID `gorm:"type:uuid;index"`
	Deadline        *time.Time `gorm:"index"`
	Priority        int        `gorm:"type:smallint;not null;default:0"`
	Notes           string     `gorm:"type:text"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CompletionNotes string `gorm:"type:text"`
}

func (TaskDTO) TableName() string {
	return "tasks"
}

type AskingTaskDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	InstanceID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentStage    int       `gorm:"type:smallint;not null"`
	IsFlagged       bool      `gorm:"not null;default:false"`
	FlagReason      string    `gorm:"type:text"`
	IsMandatory     bool      `gorm:"not null;default:false"`
	CompletedAt     *time.Time
	CompletedUserID *uuid.UUID `gorm:"type:uuid"`
	CompletionNotes string     `gorm:"type:text"`

	StageLog []StageRecordDTO `gorm:"foreignKey:AskingTaskID;constraint:OnDelete:CASCADE"`
}

func (AskingTaskDTO) TableName() string {
	return "asking_tasks"
}

// StageRecordDTO is one append-only stage log row. Seq is the position in the log.
type StageRecordDTO struct {
	AskingTaskID uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	Seq          int                                   `gorm:"primaryKey;autoIncrement:false"`
	Stage        int                                   `gorm:"type:smallint;not null"`
	Details      datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	RecordedBy   uuid.UUID                             `gorm:"type:uuid;not null"`
	RecordedAt   time.Time                             `gorm:"not null"`
}

func (StageRecordDTO) TableName() string {
	return "asking_stage_records"
}

// Models lists the DTOs of this package in migration order.
func Models() []any {
	return []any{&OrderDTO{}, &ServiceInstanceDTO{}, &TaskDTO{}, &AskingTaskDTO{}, &StageRecordDTO{}}
}

// orderRows is the flattened write set of one order.
type orderRows struct {
	order       OrderDTO
	instances   []ServiceInstanceDTO
	tasks       []TaskDTO
	askingTasks []AskingTaskDTO
	records     []StageRecordDTO
}

func fromDomain(o *order.Order) orderRows {
	var originalID *uuid.UUID
	if id := o.OriginalOrderID(); id != nil {
		raw := id.Bytes()
		originalID = &raw
	}

	orderID := o.ID().Bytes()
	r := orderRows{
		order: OrderDTO{
			ID:                  orderID,
			OrderNumber:         o.OrderNumber(),
			Status:              int(o.Status()),
			IsRevision:          o.IsRevision(),
			OriginalOrderID:     originalID,
			Amount:              o.Amount(),
			OrderDate:           o.OrderDate(),
			DeliveryDate:        o.DeliveryDate(),
			DeliveryTime:        o.DeliveryTime(),
			CompletedAt:         o.CompletedAt(),
			RevisionCompletedAt: o.RevisionCompletedAt(),
			FolderLink:          o.FolderLink(),
			Notes:               o.Notes(),
			StatusOverridden:    o.StatusOverridden(),
			Version:             o.Version(),
			CreatedAt:           o.CreatedAt(),
		},
	}

	for pos, inst := range o.Instances() {
		instanceID := inst.ID().Bytes()
		r.instances = append(r.instances, ServiceInstanceDTO{
			ID:        instanceID,
			OrderID:   orderID,
			ServiceID: inst.Service().ID().Bytes(),
			Position:  pos,
			CreatedAt: inst.CreatedAt(),
		})

		if t := inst.Task(); t != nil {
			r.tasks = append(r.tasks, taskFromDomain(instanceID, t))
		}
		if at := inst.AskingTask(); at != nil {
			r.askingTasks = append(r.askingTasks, askingTaskFromDomain(instanceID, at))
			r.records = append(r.records, stageRecordsFromDomain(at)...)
		}
	}
	return r
}

func taskFromDomain(instanceID uuid.UUID, t *task.Task) TaskDTO {
	dto := TaskDTO{
		ID:              t.ID().Bytes(),
		InstanceID:      instanceID,
		Status:          int(t.Status()),
		StartedAt:       t.StartedAt(),
		CompletedAt:     t.CompletedAt(),
		CompletionNotes: t.CompletionNotes(),
	}
	if a := t.Assignment(); a != nil {
		userID := a.UserID().Bytes()
		deadline := a.Deadline()
		dto.AssignedUserID = &userID
		dto.Deadline = &deadline
		dto.Priority = int(a.Priority())
		dto.Notes = a.Notes()
	}
	return dto
}

func askingTaskFromDomain(instanceID uuid.UUID, at *asking.AskingTask) AskingTaskDTO {
	var completedUser *uuid.UUID
	if id := at.CompletedUser(); id != nil {
		raw := id.Bytes()
		completedUser = &raw
	}
	return AskingTaskDTO{
		ID:              at.ID().Bytes(),
		InstanceID:      instanceID,
		CurrentStage:    int(at.CurrentStage()),
		IsFlagged:       at.IsFlagged(),
		FlagReason:      at.FlagReason(),
		IsMandatory:     at.IsMandatory(),
		CompletedAt:     at.CompletedAt(),
		CompletedUserID: completedUser,
		CompletionNotes: at.CompletionNotes(),
	}
}

func stageRecordsFromDomain(at *asking.AskingTask) []StageRecordDTO {
	log := at.StageLog()
	records := make([]StageRecordDTO, 0, len(log))
	for seq, rec := range log {
		records = append(records, StageRecordDTO{
			AskingTaskID: at.ID().Bytes(),
			Seq:          seq,
			Stage:        int(rec.Stage()),
			Details:      datatypes.NewJSONType(rec.Details()),
			RecordedBy:   rec.RecordedBy().Bytes(),
			RecordedAt:   rec.RecordedAt(),
		})
	}
	return records
}

// toDomain rebuilds the aggregate. services must hold every service the
// instances reference.
func toDomain(dto OrderDTO, services map[kernel.UUID]*catalog.Service) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	originalID, err := optionalUUID(dto.OriginalOrderID)
	if err != nil {
		return nil, err
	}

	instances := make([]*order.ServiceInstance, 0, len(dto.Instances))
	for _, instDTO := range dto.Instances {
		inst, instErr := instanceToDomain(instDTO, services)
		if instErr != nil {
			return nil, instErr
		}
		instances = append(instances, inst)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                  id,
		OrderNumber:         dto.OrderNumber,
		Status:              order.Status(dto.Status),
		IsRevision:          dto.IsRevision,
		OriginalOrderID:     originalID,
		Amount:              dto.Amount,
		OrderDate:           dto.OrderDate,
		DeliveryDate:        dto.DeliveryDate,
		DeliveryTime:        dto.DeliveryTime,
		CompletedAt:         dto.CompletedAt,
		RevisionCompletedAt: dto.RevisionCompletedAt,
		FolderLink:          dto.FolderLink,
		Notes:               dto.Notes,
		StatusOverridden:    dto.StatusOverridden,
		Version:             dto.Version,
		CreatedAt:           dto.CreatedAt,
		Instances:           instances,
	})
}

func instanceToDomain(dto ServiceInstanceDTO, services map[kernel.UUID]*catalog.Service) (*order.ServiceInstance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	serviceID, err := kernel.UUIDFromBytes(dto.ServiceID[:])
	if err != nil {
		return nil, err
	}
	service, ok := services[serviceID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("service", serviceID.String())
	}

	var t *task.Task
	if dto.Task != nil {
		if t, err = taskToDomain(*dto.Task); err != nil {
			return nil, err
		}
	}
	var at *asking.AskingTask
	if dto.AskingTask != nil {
		if at, err = askingTaskToDomain(*dto.AskingTask); err != nil {
			return nil, err
		}
	}

	return order.RestoreServiceInstance(id, service, dto.CreatedAt, t, at)
}

func taskToDomain(dto TaskDTO) (*task.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var assignment *task.Assignment
	if dto.AssignedUserID != nil {
		userID, userErr := kernel.UUIDFromBytes(dto.AssignedUserID[:])
		if userErr != nil {
			return nil, userErr
		}
		var deadline time.Time
		if dto.Deadline != nil {
			deadline = *dto.Deadline
		}
		a, assignErr := task.NewAssignment(userID, deadline, task.Priority(dto.Priority), dto.Notes)
		if assignErr != nil {
			return nil, assignErr
		}
		assignment = &a
	}

	return task.RestoreTask(id, task.Status(dto.Status), assignment, dto.StartedAt, dto.CompletedAt, dto.CompletionNotes)
}

func askingTaskToDomain(dto AskingTaskDTO) (*asking.AskingTask, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	completedUser, err := optionalUUID(dto.CompletedUserID)
	if err != nil {
		return nil, err
	}

	log := make([]asking.StageRecord, 0, len(dto.StageLog))
	for _, rec := range dto.StageLog {
		by, byErr := kernel.UUIDFromBytes(rec.RecordedBy[:])
		if byErr != nil {
			return nil, byErr
		}
		r, recErr := asking.NewStageRecord(asking.Stage(rec.Stage), rec.Details.Data(), by, rec.RecordedAt)
		if recErr != nil {
			return nil, recErr
		}
		log = append(log, r)
	}

	return asking.RestoreAskingTask(asking.Snapshot{
		ID:              id,
		CurrentStage:    asking.Stage(dto.CurrentStage),
		IsFlagged:       dto.IsFlagged,
		FlagReason:      dto.FlagReason,
		IsMandatory:     dto.IsMandatory,
		CompletedAt:     dto.CompletedAt,
		CompletedUser:   completedUser,
		CompletionNotes: dto.CompletionNotes,
		StageLog:        log,
	})
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
