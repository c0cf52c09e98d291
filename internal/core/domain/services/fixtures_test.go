package services_test

import (
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/model/task"
	"orderdesk/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

var (
	orderDate    = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	deliveryDate = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	now          = time.Date(2026, 2, 4, 15, 0, 0, 0, time.UTC)
	team         = kernel.NewUUID()
	otherTeam    = kernel.NewUUID()
)

type env struct {
	admin   *access.Principal
	leader  *access.Principal
	creator *access.Principal
	member  *access.Principal
	// outsideLeader leads a team that owns none of the catalog services.
	outsideLeader *access.Principal

	retouch *catalog.Service
	layout  *catalog.Service
	ask     *catalog.Service

	catalog map[kernel.UUID]*catalog.Service
}

func newEnv(t *testing.T) env {
	t.Helper()

	principal := func(role access.Role, leader bool) *access.Principal {
		return newMember(t, team, role, leader)
	}
	service := func(name string, typ catalog.Type, mandatory bool) *catalog.Service {
		s, err := catalog.NewService(kernel.NewUUID(), name, typ, team, catalog.Options{Mandatory: mandatory})
		require.NoError(t, err)
		return s
	}

	e := env{
		admin:   principal(access.Admin, false),
		leader:  principal(access.Member, true),
		creator: principal(access.OrderCreator, false),
		member:  principal(access.Member, false),
		retouch: service("Retouch", catalog.ServiceTask, false),
		layout:  service("Layout", catalog.ServiceTask, true),
		ask:     service("Ask client", catalog.AskingService, true),

		outsideLeader: newMember(t, otherTeam, access.Member, true),
	}
	e.catalog = map[kernel.UUID]*catalog.Service{
		e.retouch.ID(): e.retouch,
		e.layout.ID():  e.layout,
		e.ask.ID():     e.ask,
	}
	return e
}

func newMember(t *testing.T, teamID kernel.UUID, role access.Role, leader bool) *access.Principal {
	t.Helper()
	id := kernel.NewUUID()
	m, err := access.NewMembership(teamID, id, leader, true)
	require.NoError(t, err)
	p, err := access.NewPrincipal(id, role, []access.Membership{m})
	require.NoError(t, err)
	return p
}

func (e env) create(t *testing.T, desired ...services.DesiredQuantity) *order.Order {
	t.Helper()
	o, _, err := services.NewOrderCoordinator(services.NewServiceReconciler()).Create(e.creator, services.NewOrderRequest{
		OrderNumber:  "W-1",
		OrderDate:    orderDate,
		DeliveryDate: deliveryDate,
		Details:      order.Details{FolderLink: "https://drive.example/w-1"},
		Services:     desired,
	}, e.catalog, now)
	require.NoError(t, err)
	return o
}

func want(s *catalog.Service, n int) services.DesiredQuantity {
	return services.DesiredQuantity{ServiceID: s.ID(), Quantity: n}
}

func (e env) assignFirst(t *testing.T, o *order.Order, s *catalog.Service) *order.ServiceInstance {
	t.Helper()
	for _, inst := range o.InstancesOf(s.ID()) {
		if inst.Task() == nil || inst.IsAssigned() {
			continue
		}
		a, err := task.NewAssignment(e.member.ID(), now.Add(48*time.Hour), task.Low, "")
		require.NoError(t, err)
		_, err = o.AssignTask(e.leader, inst.Task().ID(), a)
		require.NoError(t, err)
		return inst
	}
	t.Fatalf("no unassigned %s instance", s.Name())
	return nil
}
