package http

import (
	"time"

	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/asking"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/core/domain/services"

	"github.com/google/uuid"
)

// Request bodies.

type ServiceQuantityRequest struct {
	ServiceID uuid.UUID `json:"serviceId"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	OrderNumber      string                   `json:"orderNumber"`
	OrderDate        time.Time                `json:"orderDate"`
	DeliveryDate     time.Time                `json:"deliveryDate"`
	DeliveryTime     string                   `json:"deliveryTime"`
	Amount           int64                    `json:"amount"`
	FolderLink       string                   `json:"folderLink"`
	Notes            string                   `json:"notes"`
	ServiceInstances []ServiceQuantityRequest `json:"serviceInstances"`
}

type UpdateOrderRequest struct {
	Amount       *int64     `json:"amount"`
	Notes        *string    `json:"notes"`
	DeliveryDate *time.Time `json:"deliveryDate"`
	DeliveryTime *string    `json:"deliveryTime"`
	FolderLink   *string    `json:"folderLink"`
	Status       *string    `json:"status"`
}

type ReconcileServicesRequest struct {
	ServiceInstances []ServiceQuantityRequest `json:"serviceInstances"`
}

type DeliverOrderRequest struct {
	Acknowledged bool `json:"acknowledged"`
}

type ConvertToRevisionRequest struct {
	ServiceInstanceIDs []uuid.UUID `json:"serviceInstanceIds"`
	DeliveryDate       *time.Time  `json:"deliveryDate"`
}

type AssignTaskRequest struct {
	UserID   uuid.UUID `json:"userId"`
	Deadline time.Time `json:"deadline"`
	Priority string    `json:"priority"`
	Notes    string    `json:"notes"`
}

type CompletionRequest struct {
	Notes string `json:"notes"`
}

type AdvanceStageRequest struct {
	Stage   string            `json:"stage"`
	Details map[string]string `json:"details"`
}

type FlagRequest struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason"`
}

// Responses.

type StatsResponse struct {
	TotalTasks         int `json:"totalTasks"`
	CompletedTasks     int `json:"completedTasks"`
	MandatoryRemaining int `json:"mandatoryRemaining"`
	IncompleteTotal    int `json:"incompleteTotal"`
	OverdueTasks       int `json:"overdueTasks"`
	DaysOld            int `json:"daysOld"`
}

type GateResponse struct {
	MandatoryRemaining int  `json:"mandatoryRemaining"`
	IncompleteTotal    int  `json:"incompleteTotal"`
	CanDeliver         bool `json:"canDeliver"`
}

type TaskResponse struct {
	ID              uuid.UUID  `json:"id"`
	Status          string     `json:"status"`
	DisplayStatus   string     `json:"displayStatus"`
	AssignedUserID  *uuid.UUID `json:"assignedUserId"`
	Deadline        *time.Time `json:"deadline"`
	Priority        *string    `json:"priority"`
	Notes           string     `json:"notes"`
	StartedAt       *time.Time `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	CompletionNotes string     `json:"completionNotes"`
}

type StageRecordResponse struct {
	Stage      string            `json:"stage"`
	Details    map[string]string `json:"details"`
	RecordedBy uuid.UUID         `json:"recordedBy"`
	RecordedAt time.Time         `json:"recordedAt"`
}

type AskingTaskResponse struct {
	ID              uuid.UUID             `json:"id"`
	CurrentStage    string                `json:"currentStage"`
	IsFlagged       bool                  `json:"isFlagged"`
	FlagReason      string                `json:"flagReason"`
	IsMandatory     bool                  `json:"isMandatory"`
	CompletedAt     *time.Time            `json:"completedAt"`
	CompletedBy     *uuid.UUID            `json:"completedBy"`
	CompletionNotes string                `json:"completionNotes"`
	StageLog        []StageRecordResponse `json:"stageLog"`
}

type ServiceInstanceResponse struct {
	ID          uuid.UUID           `json:"id"`
	ServiceID   uuid.UUID           `json:"serviceId"`
	ServiceName string              `json:"serviceName"`
	ServiceType string              `json:"serviceType"`
	TeamID      uuid.UUID           `json:"teamId"`
	IsMandatory bool                `json:"isMandatory"`
	CreatedAt   time.Time           `json:"createdAt"`
	Task        *TaskResponse       `json:"task,omitempty"`
	AskingTask  *AskingTaskResponse `json:"askingTask,omitempty"`
}

type OrderResponse struct {
	ID                  uuid.UUID                 `json:"id"`
	OrderNumber         string                    `json:"orderNumber"`
	Status              string                    `json:"status"`
	IsRevision          bool                      `json:"isRevision"`
	OriginalOrderID     *uuid.UUID                `json:"originalOrderId"`
	Amount              int64                     `json:"amount"`
	OrderDate           time.Time                 `json:"orderDate"`
	DeliveryDate        time.Time                 `json:"deliveryDate"`
	DeliveryTime        string                    `json:"deliveryTime"`
	CompletedAt         *time.Time                `json:"completedAt"`
	RevisionCompletedAt *time.Time                `json:"revisionCompletedAt"`
	FolderLink          string                    `json:"folderLink"`
	Notes               string                    `json:"notes"`
	StatusOverridden    bool                      `json:"statusOverridden"`
	Version             int                       `json:"version"`
	CreatedAt           time.Time                 `json:"createdAt"`
	Services            []ServiceInstanceResponse `json:"services"`
	Stats               StatsResponse             `json:"stats"`
	Gate                *GateResponse             `json:"gate,omitempty"`
}

type ChangeResponse struct {
	ServiceID   uuid.UUID `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	Delta       int       `json:"delta"`
}

type ChangesResponse struct {
	Order   OrderResponse    `json:"order"`
	Changes []ChangeResponse `json:"changes"`
	DryRun  bool             `json:"dryRun"`
}

type OrderSummaryResponse struct {
	ID              uuid.UUID     `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	Status          string        `json:"status"`
	IsRevision      bool          `json:"isRevision"`
	OriginalOrderID *uuid.UUID    `json:"originalOrderId"`
	Amount          int64         `json:"amount"`
	OrderDate       time.Time     `json:"orderDate"`
	DeliveryDate    time.Time     `json:"deliveryDate"`
	DeliveryTime    string        `json:"deliveryTime"`
	CompletedAt     *time.Time    `json:"completedAt"`
	Stats           StatsResponse `json:"stats"`
}

type OverdueTaskResponse struct {
	TaskID         uuid.UUID `json:"taskId"`
	OrderID        uuid.UUID `json:"orderId"`
	OrderNumber    string    `json:"orderNumber"`
	ServiceName    string    `json:"serviceName"`
	TeamID         uuid.UUID `json:"teamId"`
	AssignedUserID uuid.UUID `json:"assignedUserId"`
	Deadline       time.Time `json:"deadline"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
}

func toDesired(in []ServiceQuantityRequest) ([]services.DesiredQuantity, error) {
	out := make([]services.DesiredQuantity, 0, len(in))
	for _, q := range in {
		id, err := kernel.UUIDFromBytes(q.ServiceID[:])
		if err != nil {
			return nil, err
		}
		out = append(out, services.DesiredQuantity{ServiceID: id, Quantity: q.Quantity})
	}
	return out, nil
}

func toKernelIDs(in []uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(in))
	for _, u := range in {
		id, err := kernel.UUIDFromBytes(u[:])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	u := id.Bytes()
	return &u
}

func newStatsResponse(s services.Stats) StatsResponse {
	return StatsResponse{
		TotalTasks:         s.TotalTasks,
		CompletedTasks:     s.CompletedTasks,
		MandatoryRemaining: s.MandatoryRemaining,
		IncompleteTotal:    s.IncompleteTotal,
		OverdueTasks:       s.OverdueTasks,
		DaysOld:            s.DaysOld,
	}
}

func newGateResponse(g services.Gate) *GateResponse {
	return &GateResponse{
		MandatoryRemaining: g.MandatoryRemaining,
		IncompleteTotal:    g.IncompleteTotal,
		CanDeliver:         g.CanDeliver,
	}
}

func newOrderResponse(o *order.Order, stats services.Stats, now time.Time) OrderResponse {
	resp := OrderResponse{
		ID:                  o.ID().Bytes(),
		OrderNumber:         o.OrderNumber(),
		Status:              o.Status().String(),
		IsRevision:          o.IsRevision(),
		OriginalOrderID:     optionalID(o.OriginalOrderID()),
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
		Services:            make([]ServiceInstanceResponse, 0, o.InstanceCount()),
		Stats:               newStatsResponse(stats),
	}
	for _, inst := range o.Instances() {
		resp.Services = append(resp.Services, newServiceInstanceResponse(inst, now))
	}
	return resp
}

func newServiceInstanceResponse(inst *order.ServiceInstance, now time.Time) ServiceInstanceResponse {
	svc := inst.Service()
	resp := ServiceInstanceResponse{
		ID:          inst.ID().Bytes(),
		ServiceID:   svc.ID().Bytes(),
		ServiceName: svc.Name(),
		ServiceType: svc.Type().String(),
		TeamID:      svc.TeamID().Bytes(),
		IsMandatory: inst.IsMandatory(),
		CreatedAt:   inst.CreatedAt(),
	}
	if t := inst.Task(); t != nil {
		resp.Task = newTaskResponse(t, now)
	}
	if at := inst.AskingTask(); at != nil {
		resp.AskingTask = newAskingTaskResponse(at)
	}
	return resp
}

func newTaskResponse(t *task.Task, now time.Time) *TaskResponse {
	resp := &TaskResponse{
		ID:              t.ID().Bytes(),
		Status:          t.Status().String(),
		DisplayStatus:   t.DisplayStatus(now),
		StartedAt:       t.StartedAt(),
		CompletedAt:     t.CompletedAt(),
		CompletionNotes: t.CompletionNotes(),
	}
	if a := t.Assignment(); a != nil {
		user := a.UserID().Bytes()
		deadline := a.Deadline()
		priority := a.Priority().String()
		resp.AssignedUserID = &user
		resp.Deadline = &deadline
		resp.Priority = &priority
		resp.Notes = a.Notes()
	}
	return resp
}

func newAskingTaskResponse(at *asking.AskingTask) *AskingTaskResponse {
	resp := &AskingTaskResponse{
		ID:              at.ID().Bytes(),
		CurrentStage:    at.CurrentStage().String(),
		IsFlagged:       at.IsFlagged(),
		FlagReason:      at.FlagReason(),
		IsMandatory:     at.IsMandatory(),
		CompletedAt:     at.CompletedAt(),
		CompletedBy:     optionalID(at.CompletedUser()),
		CompletionNotes: at.CompletionNotes(),
		StageLog:        make([]StageRecordResponse, 0, len(at.StageLog())),
	}
	for _, r := range at.StageLog() {
		resp.StageLog = append(resp.StageLog, StageRecordResponse{
			Stage:      r.Stage().String(),
			Details:    r.Details(),
			RecordedBy: r.RecordedBy().Bytes(),
			RecordedAt: r.RecordedAt(),
		})
	}
	return resp
}

func newChangesResponse(order OrderResponse, changes []services.Change, dryRun bool) ChangesResponse {
	resp := ChangesResponse{
		Order:   order,
		Changes: make([]ChangeResponse, 0, len(changes)),
		DryRun:  dryRun,
	}
	for _, ch := range changes {
		resp.Changes = append(resp.Changes, ChangeResponse{
			ServiceID:   ch.ServiceID.Bytes(),
			ServiceName: ch.ServiceName,
			Delta:       ch.Delta,
		})
	}
	return resp
}

func newOrderSummaryResponse(s queries.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:              s.ID.Bytes(),
		OrderNumber:     s.OrderNumber,
		Status:          s.Status.String(),
		IsRevision:      s.IsRevision,
		OriginalOrderID: optionalID(s.OriginalOrderID),
		Amount:          s.Amount,
		OrderDate:       s.OrderDate,
		DeliveryDate:    s.DeliveryDate,
		DeliveryTime:    s.DeliveryTime,
		CompletedAt:     s.CompletedAt,
		Stats: StatsResponse{
			TotalTasks:         s.TotalTasks,
			CompletedTasks:     s.CompletedTasks,
			MandatoryRemaining: s.MandatoryRemaining,
			IncompleteTotal:    s.IncompleteTotal,
			OverdueTasks:       s.OverdueTasks,
			DaysOld:            s.DaysOld,
		},
	}
}

func newOverdueTaskResponse(t queries.OverdueTask) OverdueTaskResponse {
	return OverdueTaskResponse{
		TaskID:         t.TaskID.Bytes(),
		OrderID:        t.OrderID.Bytes(),
		OrderNumber:    t.OrderNumber,
		ServiceName:    t.ServiceName,
		TeamID:         t.TeamID.Bytes(),
		AssignedUserID: t.AssignedUserID.Bytes(),
		Deadline:       t.Deadline,
		Priority:       t.Priority.String(),
		Status:         t.Status.String(),
	}
}
