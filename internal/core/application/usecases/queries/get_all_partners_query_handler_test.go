package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/redis/partnerrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type GetAllPartnersQueryHandlerTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
	repo      *partnerrepo.RedisPartnerRepository
	handler   queries.GetAllPartnersQueryHandler
}

func (suite *GetAllPartnersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	suite.Require().NoError(err)
	suite.container = container

	uri, err := container.ConnectionString(ctx)
	suite.Require().NoError(err)

	opts, err := goredis.ParseURL(uri)
	suite.Require().NoError(err)
	suite.client = goredis.NewClient(opts)

	suite.repo = partnerrepo.NewRedisPartnerRepository(suite.client)
	suite.handler = queries.NewGetAllPartnersQueryHandler(suite.client)
}

func (suite *GetAllPartnersQueryHandlerTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetAllPartnersQueryHandlerTestSuite) SetupTest() {
	err := suite.client.FlushAll(context.Background()).Err()
	suite.Require().NoError(err)
}

func (suite *GetAllPartnersQueryHandlerTestSuite) TestHandle_EmptyStore_ReturnsEmptySlice() {
	query := queries.NewGetAllPartnersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetAllPartnersQueryHandlerTestSuite) TestHandle_ActivePartnerHasPosition() {
	ctx := context.Background()

	location, err := kernel.NewGeoPoint(40.6783, -73.9655)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.UpsertLocation(ctx, "dp_001", location, partner.StatusOnline))

	assignedAt := time.Now().Add(-5 * time.Minute)
	suite.Require().NoError(suite.repo.RecordAssignment(ctx, "dp_001", assignedAt))

	result, err := suite.handler.Handle(ctx, queries.NewGetAllPartnersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	entry := result[0]
	suite.Equal("dp_001", entry.PartnerID)
	suite.Equal("online", entry.Status)
	suite.NotZero(entry.LastSeen)
	suite.InDelta(float64(assignedAt.UnixMilli()), float64(entry.LastAssigned), 1)
	suite.Require().NotNil(entry.Lat)
	suite.Require().NotNil(entry.Lng)
	// Geo-index precision is a few meters at most.
	suite.InDelta(40.6783, *entry.Lat, 0.001)
	suite.InDelta(-73.9655, *entry.Lng, 0.001)
}

func (suite *GetAllPartnersQueryHandlerTestSuite) TestHandle_SkipsPartnerSubKeys() {
	ctx := context.Background()

	location, err := kernel.NewGeoPoint(40.6783, -73.9655)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.UpsertLocation(ctx, "dp_001", location, partner.StatusOnline))
	suite.Require().NoError(suite.repo.RegisterOrder(ctx, "dp_001", "ord_1"))

	result, err := suite.handler.Handle(ctx, queries.NewGetAllPartnersQuery())

	suite.Require().NoError(err)
	// partner:dp_001:orders must not surface as a second partner.
	suite.Require().Len(result, 1)
	suite.Equal("dp_001", result[0].PartnerID)
}

func (suite *GetAllPartnersQueryHandlerTestSuite) TestHandle_RecordWithoutGeoEntryHasNilPosition() {
	ctx := context.Background()

	err := suite.client.HSet(ctx, "partner:dp_002",
		"status", "online",
		"lastSeen", "1700000000000",
	).Err()
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(ctx, queries.NewGetAllPartnersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(int64(1_700_000_000_000), result[0].LastSeen)
	suite.Nil(result[0].Lat)
	suite.Nil(result[0].Lng)
}

func (suite *GetAllPartnersQueryHandlerTestSuite) TestHandle_ValidationError() {
	query := queries.GetAllPartnersQuery{} // not constructed properly

	_, err := suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, queries.ErrGetAllPartnersQueryIsNotConstructed)
}

func TestGetAllPartnersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAllPartnersQueryHandlerTestSuite))
}
