package teamrepo_test

import (
	"context"
	"testing"

	postgresadapter "orderdesk/internal/adapters/out/postgres"
	"orderdesk/internal/adapters/out/postgres/pgtest"
	"orderdesk/internal/adapters/out/postgres/teamrepo"
	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type TeamRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *teamrepo.GormTeamRepository
}

func (suite *TeamRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.Require().NoError(postgresadapter.Migrate(db))
}

func (suite *TeamRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.repository = teamrepo.NewGormTeamRepository(suite.db)
}

func (suite *TeamRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TeamRepositoryIntegrationTestSuite) TestMembershipsOfUser() {
	ctx := context.Background()
	user, other := kernel.NewUUID(), kernel.NewUUID()
	design, printing := kernel.NewUUID(), kernel.NewUUID()

	for _, m := range []struct {
		team, user       kernel.UUID
		leader, isActive bool
	}{
		{design, user, true, true},
		{printing, user, false, false},
		{design, other, false, true},
	} {
		membership, err := access.NewMembership(m.team, m.user, m.leader, m.isActive)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.SaveMembership(ctx, membership))
	}

	memberships, err := suite.repository.MembershipsOfUser(ctx, user)

	suite.Require().NoError(err)
	suite.Len(memberships, 2)

	principal, err := access.NewPrincipal(user, access.Member, memberships)
	suite.Require().NoError(err)
	suite.True(principal.CanEdit())
	suite.Equal([]kernel.UUID{design}, principal.TeamIDs())
}

func (suite *TeamRepositoryIntegrationTestSuite) TestSaveMembership_Upserts() {
	ctx := context.Background()
	team, user := kernel.NewUUID(), kernel.NewUUID()

	leader, err := access.NewMembership(team, user, true, true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.SaveMembership(ctx, leader))

	demoted, err := access.NewMembership(team, user, false, true)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.SaveMembership(ctx, demoted))

	memberships, err := suite.repository.MembershipsOfUser(ctx, user)
	suite.Require().NoError(err)
	suite.Require().Len(memberships, 1)
	suite.False(memberships[0].IsLeader())
}

func TestTeamRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(TeamRepositoryIntegrationTestSuite))
}
