package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/asking"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder       commands.CreateOrderCommandHandler
	UpdateOrder       commands.UpdateOrderCommandHandler
	ReconcileServices commands.ReconcileServicesCommandHandler
	OrderAction       commands.OrderActionCommandHandler
	DeliverOrder      commands.DeliverOrderCommandHandler
	ConvertToRevision commands.ConvertToRevisionCommandHandler
	AssignTask        commands.AssignTaskCommandHandler
	TaskAction        commands.TaskActionCommandHandler
	CompleteTask      commands.CompleteTaskCommandHandler
	AskingTask        commands.AskingTaskCommandHandler

	GetOrder         queries.GetOrderQueryHandler
	ListOrders       queries.ListOrdersQueryHandler
	ListOverdueTasks queries.ListOverdueTasksQueryHandler
}

// Server translates HTTP requests into commands and queries and their
// results into JSON. Every handler answers through fail on error.
type Server struct {
	handlers Handlers
	clock    kernel.Clock
	logger   *slog.Logger
}

func NewServer(handlers Handlers, clock kernel.Clock, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		clock:    clock,
		logger:   logger.With("component", "http"),
	}
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	var (
		status   *string
		revision *bool
		filter   queries.ListOrdersFilter
	)
	if err := runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &status); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("status", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "revision", c.QueryParams(), &revision); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("revision", err))
	}
	if status != nil {
		parsed, err := order.ParseStatus(*status)
		if err != nil {
			return s.fail(c, err)
		}
		filter.Status = &parsed
	}
	filter.Revision = revision

	query, err := queries.NewListOrdersQuery(actorFrom(c), filter)
	if err != nil {
		return s.fail(c, err)
	}
	summaries, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]OrderSummaryResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = newOrderSummaryResponse(summary)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c)
	}
	desired, err := toDesired(req.ServiceInstances)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(actorFrom(c), req.OrderNumber, req.OrderDate, req.DeliveryDate, order.Details{
		Amount:       req.Amount,
		DeliveryTime: req.DeliveryTime,
		FolderLink:   req.FolderLink,
		Notes:        req.Notes,
	}, desired)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, newChangesResponse(
		newOrderResponse(result.Order, result.Stats, s.clock.Now()), result.Changes, false))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderQuery(actorFrom(c), id)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	response := newOrderResponse(view.Order, view.Stats, s.clock.Now())
	response.Gate = newGateResponse(view.Gate)
	return c.JSON(http.StatusOK, response)
}

// UpdateOrder handles PATCH /api/v1/orders/:id.
func (s *Server) UpdateOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req UpdateOrderRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}

	changes := commands.OrderChanges{
		Amount:       req.Amount,
		Notes:        req.Notes,
		DeliveryDate: req.DeliveryDate,
		DeliveryTime: req.DeliveryTime,
		FolderLink:   req.FolderLink,
	}
	if req.Status != nil {
		status, parseErr := order.ParseStatus(*req.Status)
		if parseErr != nil {
			return s.fail(c, parseErr)
		}
		changes.Status = &status
	}

	cmd, err := commands.NewUpdateOrderCommand(actorFrom(c), id, changes)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.UpdateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

// ReconcileServices handles PATCH /api/v1/orders/:id/services.
func (s *Server) ReconcileServices(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var dryRun *bool
	if err = runtime.BindQueryParameter("form", true, false, "dryRun", c.QueryParams(), &dryRun); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("dryRun", err))
	}
	var req ReconcileServicesRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}
	desired, err := toDesired(req.ServiceInstances)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewReconcileServicesCommand(actorFrom(c), id, desired, dryRun != nil && *dryRun)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.ReconcileServices.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newChangesResponse(
		newOrderResponse(result.Order, result.Stats, s.clock.Now()), result.Changes, result.DryRun))
}

// VerifyOrder handles POST /api/v1/orders/:id/verify.
func (s *Server) VerifyOrder(c echo.Context) error {
	return s.orderAction(c, commands.VerifyOrder)
}

// CompleteRevision handles POST /api/v1/orders/:id/complete-revision.
func (s *Server) CompleteRevision(c echo.Context) error {
	return s.orderAction(c, commands.CompleteRevision)
}

func (s *Server) orderAction(c echo.Context, action commands.OrderAction) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewOrderActionCommand(actorFrom(c), id, action)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.OrderAction.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

// DeliverOrder handles POST /api/v1/orders/:id/deliver. A refused delivery
// answers 412 with the gate counts.
func (s *Server) DeliverOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req DeliverOrderRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}

	cmd, err := commands.NewDeliverOrderCommand(actorFrom(c), id, req.Acknowledged)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.DeliverOrder.Handle(c.Request().Context(), cmd)
	if errors.Is(err, errs.ErrPrecondition) {
		return c.JSON(http.StatusPreconditionFailed, ErrorResponse{
			Code:    http.StatusPreconditionFailed,
			Message: err.Error(),
			Gate:    newGateResponse(result.Gate),
		})
	}
	if err != nil {
		return s.fail(c, err)
	}

	response := newOrderResponse(result.Order, result.Stats, s.clock.Now())
	response.Gate = newGateResponse(result.Gate)
	return c.JSON(http.StatusOK, response)
}

// ConvertToRevision handles POST /api/v1/orders/:id/convert-to-revision and
// answers with the new revision order.
func (s *Server) ConvertToRevision(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req ConvertToRevisionRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}
	instanceIDs, err := toKernelIDs(req.ServiceInstanceIDs)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewConvertToRevisionCommand(actorFrom(c), id, instanceIDs, req.DeliveryDate)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.ConvertToRevision.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusCreated, result)
}

// ListOverdueTasks handles GET /api/v1/tasks/overdue.
func (s *Server) ListOverdueTasks(c echo.Context) error {
	query, err := queries.NewListOverdueTasksQuery(actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	overdue, err := s.handlers.ListOverdueTasks.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]OverdueTaskResponse, len(overdue))
	for i, t := range overdue {
		response[i] = newOverdueTaskResponse(t)
	}
	return c.JSON(http.StatusOK, response)
}

// AssignTask handles POST /api/v1/tasks/:id/assign.
func (s *Server) AssignTask(c echo.Context) error {
	return s.assign(c, commands.NewAssignTaskCommand)
}

// ReassignTask handles PATCH /api/v1/tasks/:id/reassign.
func (s *Server) ReassignTask(c echo.Context) error {
	return s.assign(c, commands.NewReassignTaskCommand)
}

type assignCommandFunc func(
	actor access.Actor,
	taskID kernel.UUID,
	userID kernel.UUID,
	deadline time.Time,
	priority task.Priority,
	notes string,
) (commands.AssignTaskCommand, error)

func (s *Server) assign(c echo.Context, newCommand assignCommandFunc) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req AssignTaskRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}
	userID, err := kernel.UUIDFromBytes(req.UserID[:])
	if err != nil {
		return s.fail(c, err)
	}
	priority, err := task.ParsePriority(req.Priority)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := newCommand(actorFrom(c), id, userID, req.Deadline, priority, req.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.AssignTask.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

// StartTask handles POST /api/v1/tasks/:id/start.
func (s *Server) StartTask(c echo.Context) error {
	return s.taskAction(c, commands.StartTask)
}

// TogglePauseTask handles POST /api/v1/tasks/:id/pause.
func (s *Server) TogglePauseTask(c echo.Context) error {
	return s.taskAction(c, commands.TogglePauseTask)
}

// DiscardTask handles DELETE /api/v1/tasks/:id/discard.
func (s *Server) DiscardTask(c echo.Context) error {
	return s.taskAction(c, commands.DiscardTask)
}

func (s *Server) taskAction(c echo.Context, action commands.TaskAction) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewTaskActionCommand(actorFrom(c), id, action)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.TaskAction.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

// CompleteTask handles POST /api/v1/tasks/:id/complete.
func (s *Server) CompleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CompletionRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}

	cmd, err := commands.NewCompleteTaskCommand(actorFrom(c), id, req.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.CompleteTask.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

// AdvanceAskingStage handles PATCH /api/v1/asking-tasks/:id/stage.
func (s *Server) AdvanceAskingStage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req AdvanceStageRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}
	stage, err := asking.ParseStage(req.Stage)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAdvanceAskingStageCommand(actorFrom(c), id, stage, req.Details)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.AskingTask.HandleAdvance(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

// FlagAskingTask handles PATCH /api/v1/asking-tasks/:id/flag.
func (s *Server) FlagAskingTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req FlagRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}

	cmd, err := commands.NewFlagAskingTaskCommand(actorFrom(c), id, req.Flagged, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.AskingTask.HandleFlag(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

// CompleteAskingTask handles PATCH /api/v1/asking-tasks/:id/complete.
func (s *Server) CompleteAskingTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CompletionRequest
	if err = c.Bind(&req); err != nil {
		return s.badRequest(c)
	}

	cmd, err := commands.NewCompleteAskingTaskCommand(actorFrom(c), id, req.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.AskingTask.HandleComplete(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return s.order(c, http.StatusOK, result)
}

func (s *Server) order(c echo.Context, status int, result commands.OrderResult) error {
	return c.JSON(status, newOrderResponse(result.Order, result.Stats, s.clock.Now()))
}

func (s *Server) badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}

// fail answers with the status of err. Unclassified errors are logged and
// hidden from the client.
func (s *Server) fail(c echo.Context, err error) error {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err)
		message = http.StatusText(status)
	}
	return c.JSON(status, ErrorResponse{Code: status, Message: message})
}

// pathID binds the :id path parameter the way generated server wrappers do.
func pathID(c echo.Context) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromString(raw)
}
