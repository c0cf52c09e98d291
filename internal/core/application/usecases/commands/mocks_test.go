package commands_test

import (
	"context"
	"testing"
	"time"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/services"
	"orderdesk/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByTaskID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByAskingTaskID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) CountRevisions(ctx context.Context, id kernel.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) Save(ctx context.Context, s *catalog.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockCatalogRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*catalog.Service)
	return s, args.Error(1)
}

func (m *MockCatalogRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*catalog.Service, error) {
	args := m.Called(ctx, ids)
	s, _ := args.Get(0).(map[kernel.UUID]*catalog.Service)
	return s, args.Error(1)
}

func (m *MockCatalogRepository) List(ctx context.Context) ([]*catalog.Service, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]*catalog.Service)
	return s, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockOrderUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) CatalogRepository() ports.CatalogRepository {
	return m.Called().Get(0).(ports.CatalogRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

var (
	orderDate    = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	deliveryDate = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	now          = time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)
	clock        = kernel.FixedClock(now)
	teamID       = kernel.NewUUID()
)

type world struct {
	admin   *access.Principal
	creator *access.Principal
	member  *access.Principal

	retouch *catalog.Service
	ask     *catalog.Service
	catalog map[kernel.UUID]*catalog.Service

	repo    *MockOrderRepository
	catRepo *MockCatalogRepository
	uow     *MockOrderUoW
	factory *MockOrderUoWFactory
}

func newWorld(t *testing.T) *world {
	t.Helper()

	principal := func(role access.Role) *access.Principal {
		id := kernel.NewUUID()
		m, err := access.NewMembership(teamID, id, false, true)
		require.NoError(t, err)
		p, err := access.NewPrincipal(id, role, []access.Membership{m})
		require.NoError(t, err)
		return p
	}
	retouch, err := catalog.NewService(kernel.NewUUID(), "Retouch", catalog.ServiceTask, teamID, catalog.Options{})
	require.NoError(t, err)
	ask, err := catalog.NewService(kernel.NewUUID(), "Ask", catalog.AskingService, teamID, catalog.Options{Mandatory: true})
	require.NoError(t, err)

	w := &world{
		admin:   principal(access.Admin),
		creator: principal(access.OrderCreator),
		member:  principal(access.Member),
		retouch: retouch,
		ask:     ask,
		catalog: map[kernel.UUID]*catalog.Service{retouch.ID(): retouch, ask.ID(): ask},
		repo:    new(MockOrderRepository),
		catRepo: new(MockCatalogRepository),
		uow:     new(MockOrderUoW),
		factory: new(MockOrderUoWFactory),
	}
	w.factory.On("Create").Return(w.uow).Maybe()
	w.uow.On("OrderRepository").Return(w.repo).Maybe()
	w.uow.On("CatalogRepository").Return(w.catRepo).Maybe()
	w.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	return w
}

// order builds an order holding one retouch task and one asking task.
func (w *world) order(t *testing.T) *order.Order {
	t.Helper()
	o, _, err := services.NewOrderCoordinator(services.NewServiceReconciler()).Create(w.admin, services.NewOrderRequest{
		OrderNumber:  "C-9",
		OrderDate:    orderDate,
		DeliveryDate: deliveryDate,
		Details:      order.Details{FolderLink: "https://drive.example/c-9"},
		Services: []services.DesiredQuantity{
			{ServiceID: w.retouch.ID(), Quantity: 1},
			{ServiceID: w.ask.ID(), Quantity: 1},
		},
	}, w.catalog, now)
	require.NoError(t, err)
	return o
}

func (w *world) assertExpectations(t *testing.T) {
	t.Helper()
	w.repo.AssertExpectations(t)
	w.catRepo.AssertExpectations(t)
	w.uow.AssertExpectations(t)
	w.factory.AssertExpectations(t)
}

func taskOf(o *order.Order) kernel.UUID {
	for _, inst := range o.Instances() {
		if inst.Task() != nil {
			return inst.Task().ID()
		}
	}
	return kernel.UUID{}
}

func askingOf(o *order.Order) kernel.UUID {
	for _, inst := range o.Instances() {
		if inst.AskingTask() != nil {
			return inst.AskingTask().ID()
		}
	}
	return kernel.UUID{}
}
