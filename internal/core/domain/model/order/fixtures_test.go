package order_test

import (
	"testing"
	"time"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/catalog"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/domain/model/task"

	"github.com/stretchr/testify/require"
)

var (
	orderDate    = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	deliveryDate = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	now          = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	designTeam   = kernel.NewUUID()
	otherTeam    = kernel.NewUUID()
)

type fixture struct {
	admin   *access.Principal
	leader  *access.Principal
	member  *access.Principal
	outside *access.Principal

	editing  *catalog.Service
	mandated *catalog.Service
	asking   *catalog.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	principal := func(role access.Role, team kernel.UUID, leader bool) *access.Principal {
		id := kernel.NewUUID()
		m, err := access.NewMembership(team, id, leader, true)
		require.NoError(t, err)
		p, err := access.NewPrincipal(id, role, []access.Membership{m})
		require.NoError(t, err)
		return p
	}
	service := func(name string, typ catalog.Type, opts catalog.Options) *catalog.Service {
		s, err := catalog.NewService(kernel.NewUUID(), name, typ, designTeam, opts)
		require.NoError(t, err)
		return s
	}

	return fixture{
		admin:    principal(access.Admin, otherTeam, false),
		leader:   principal(access.Member, designTeam, true),
		member:   principal(access.Member, designTeam, false),
		outside:  principal(access.Member, otherTeam, false),
		editing:  service("Photo editing", catalog.ServiceTask, catalog.Options{RequiresCompletionNote: true}),
		mandated: service("Album layout", catalog.ServiceTask, catalog.Options{Mandatory: true}),
		asking:   service("Ask for feedback", catalog.AskingService, catalog.Options{Mandatory: true}),
	}
}

// newOrder builds an order with one instance of each given service.
func (f fixture) newOrder(t *testing.T, services ...*catalog.Service) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-100", orderDate, deliveryDate,
		order.Details{Amount: 25000, FolderLink: "https://drive.example/ord-100"}, now)
	require.NoError(t, err)

	add := make([]*order.ServiceInstance, 0, len(services))
	for _, s := range services {
		inst, err := order.NewServiceInstance(kernel.NewUUID(), s, now)
		require.NoError(t, err)
		add = append(add, inst)
	}
	require.NoError(t, o.ApplyInstanceChanges(add, nil))
	return o
}

func assignment(t *testing.T, user kernel.UUID, deadline time.Time) task.Assignment {
	t.Helper()
	a, err := task.NewAssignment(user, deadline, task.Medium, "")
	require.NoError(t, err)
	return a
}

func firstTaskID(o *order.Order) kernel.UUID {
	for _, inst := range o.Instances() {
		if inst.Task() != nil {
			return inst.Task().ID()
		}
	}
	return kernel.UUID{}
}

func firstAskingID(o *order.Order) kernel.UUID {
	for _, inst := range o.Instances() {
		if inst.AskingTask() != nil {
			return inst.AskingTask().ID()
		}
	}
	return kernel.UUID{}
}
