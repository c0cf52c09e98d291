package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpadapter "orderdesk/internal/adapters/in/http"
	"orderdesk/internal/adapters/out/postgres"
	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/application/usecases/queries"
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/jobs"
	"orderdesk/internal/seed"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs     Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	clock       kernel.Clock
	reconciler  services.ServiceReconciler
	coordinator services.OrderCoordinator
	logger      *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	reconciler := services.NewServiceReconciler()
	return CompositionRoot{
		configs:     configs,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:       kernel.SystemClock{},
		reconciler:  reconciler,
		coordinator: services.NewOrderCoordinator(reconciler),
		logger:      logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.coordinator, c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateReconcileServicesCommandHandler() commands.ReconcileServicesCommandHandler {
	return commands.NewReconcileServicesCommandHandler(c.orderUoWFactory(), c.reconciler, c.clock)
}

func (c *CompositionRoot) CreateOrderActionCommandHandler() commands.OrderActionCommandHandler {
	return commands.NewOrderActionCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.orderUoWFactory(), c.coordinator, c.clock)
}

func (c *CompositionRoot) CreateConvertToRevisionCommandHandler() commands.ConvertToRevisionCommandHandler {
	return commands.NewConvertToRevisionCommandHandler(c.orderUoWFactory(), c.coordinator, c.clock)
}

func (c *CompositionRoot) CreateAssignTaskCommandHandler() commands.AssignTaskCommandHandler {
	return commands.NewAssignTaskCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateTaskActionCommandHandler() commands.TaskActionCommandHandler {
	return commands.NewTaskActionCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCompleteTaskCommandHandler() commands.CompleteTaskCommandHandler {
	return commands.NewCompleteTaskCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAskingTaskCommandHandler() commands.AskingTaskCommandHandler {
	return commands.NewAskingTaskCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory, c.clock)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateListOverdueTasksQueryHandler() queries.ListOverdueTasksQueryHandler {
	return queries.NewListOverdueTasksQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		UpdateOrder:       c.CreateUpdateOrderCommandHandler(),
		ReconcileServices: c.CreateReconcileServicesCommandHandler(),
		OrderAction:       c.CreateOrderActionCommandHandler(),
		DeliverOrder:      c.CreateDeliverOrderCommandHandler(),
		ConvertToRevision: c.CreateConvertToRevisionCommandHandler(),
		AssignTask:        c.CreateAssignTaskCommandHandler(),
		TaskAction:        c.CreateTaskActionCommandHandler(),
		CompleteTask:      c.CreateCompleteTaskCommandHandler(),
		AskingTask:        c.CreateAskingTaskCommandHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),
		ListOrders:        c.CreateListOrdersQueryHandler(),
		ListOverdueTasks:  c.CreateListOverdueTasksQueryHandler(),
	}
}

// CreateRouter builds the echo instance with the API and its middleware.
func (c *CompositionRoot) CreateRouter(ctx context.Context, tracer trace.Tracer) (*echo.Echo, error) {
	spec, err := httpadapter.LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	memberships := FuncMembershipSource(func(ctx context.Context, userID kernel.UUID) ([]access.Membership, error) {
		return c.uowFactory.Create().TeamRepository().MembershipsOfUser(ctx, userID)
	})
	return httpadapter.NewRouter(httpadapter.RouterConfig{
		Server:        httpadapter.NewServer(c.CreateHandlers(), c.clock, c.logger),
		Authenticator: httpadapter.NewAuthenticator(c.configs.JWTSecret, memberships),
		Spec:          spec,
		Tracer:        tracer,
		Logger:        c.logger,
	})
}

// CreateJobManager wires the background jobs. The overdue monitor runs as a
// system administrator so it sees every task.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	systemUser := kernel.NewUUID()
	if c.configs.SystemUserID != "" {
		id, err := kernel.UUIDFromString(c.configs.SystemUserID)
		if err != nil {
			return nil, fmt.Errorf("SYSTEM_USER_ID: %w", err)
		}
		systemUser = id
	}
	system, err := access.NewPrincipal(systemUser, access.Admin, nil)
	if err != nil {
		return nil, err
	}

	overdueMonitor := jobs.NewOverdueMonitorJob(
		c.CreateListOverdueTasksQueryHandler(),
		system,
		c.clock,
		c.configs.OverdueSchedule,
		c.logger,
	)
	return jobs.NewJobManager(overdueMonitor), nil
}

// Seed loads the configured seed file into the catalog and team tables.
func (c *CompositionRoot) Seed(ctx context.Context) error {
	if c.configs.SeedFile == "" {
		return nil
	}
	data, err := seed.Load(c.configs.SeedFile)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, c.uowFactory.Create(), data); err != nil {
		return err
	}
	c.logger.Info("Seed data applied",
		"file", c.configs.SeedFile,
		"memberships", len(data.Memberships),
		"services", len(data.Services))
	return nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncMembershipSource func(ctx context.Context, userID kernel.UUID) ([]access.Membership, error)

func (f FuncMembershipSource) MembershipsOfUser(ctx context.Context, userID kernel.UUID) ([]access.Membership, error) {
	return f(ctx, userID)
}
