package batchrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/redis/batchrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisBatchRepositoryTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
	repo      *batchrepo.RedisBatchRepository
}

func (suite *RedisBatchRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	suite.Require().NoError(err)
	suite.container = container

	uri, err := container.ConnectionString(ctx)
	suite.Require().NoError(err)

	opts, err := goredis.ParseURL(uri)
	suite.Require().NoError(err)
	suite.client = goredis.NewClient(opts)

	suite.repo = batchrepo.NewRedisBatchRepository(suite.client)
}

func (suite *RedisBatchRepositoryTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *RedisBatchRepositoryTestSuite) SetupTest() {
	err := suite.client.FlushAll(context.Background()).Err()
	suite.Require().NoError(err)
}

func (suite *RedisBatchRepositoryTestSuite) newOrder(id string, attempt int) *order.Order {
	restaurant, err := kernel.NewGeoPoint(40.6783, -73.9655)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewGeoPoint(40.6850, -73.9700)
	suite.Require().NoError(err)

	o, err := order.NewOrder(id, restaurant, dropoff, "zone_40.68_-73.97", attempt)
	suite.Require().NoError(err)
	return o
}

func (suite *RedisBatchRepositoryTestSuite) TestPublish_RoundTripsThroughPendingInZone() {
	ctx := context.Background()
	o := suite.newOrder("ord_1", 2)

	suite.Require().NoError(suite.repo.Publish(ctx, o))

	pending, err := suite.repo.PendingInZone(ctx, o.PickupZone())

	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("ord_1", pending[0].ID())
	suite.Equal(2, pending[0].Attempt())
	suite.Equal(o.PickupZone(), pending[0].PickupZone())
	suite.InDelta(o.RestaurantLocation().Lat(), pending[0].RestaurantLocation().Lat(), 1e-9)
	suite.InDelta(o.DeliveryLocation().Lon(), pending[0].DeliveryLocation().Lon(), 1e-9)
}

func (suite *RedisBatchRepositoryTestSuite) TestPublish_SetsZoneTTL() {
	ctx := context.Background()
	o := suite.newOrder("ord_1", 0)

	suite.Require().NoError(suite.repo.Publish(ctx, o))

	ttl, err := suite.client.TTL(ctx, "pending:zone:"+o.PickupZone()).Result()

	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, batchrepo.PendingTTL)
}

func (suite *RedisBatchRepositoryTestSuite) TestPublish_OverwritesRequeuedOrder() {
	ctx := context.Background()

	suite.Require().NoError(suite.repo.Publish(ctx, suite.newOrder("ord_1", 0)))
	suite.Require().NoError(suite.repo.Publish(ctx, suite.newOrder("ord_1", 1)))

	pending, err := suite.repo.PendingInZone(ctx, "zone_40.68_-73.97")

	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(1, pending[0].Attempt())
}

func (suite *RedisBatchRepositoryTestSuite) TestPendingInZone_SkipsUndecodableEntries() {
	ctx := context.Background()
	o := suite.newOrder("ord_1", 0)

	suite.Require().NoError(suite.repo.Publish(ctx, o))
	err := suite.client.HSet(ctx, "pending:zone:"+o.PickupZone(), "ord_junk", "{not json").Err()
	suite.Require().NoError(err)

	pending, err := suite.repo.PendingInZone(ctx, o.PickupZone())

	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("ord_1", pending[0].ID())
}

func (suite *RedisBatchRepositoryTestSuite) TestRemove_DeletesOnlyGivenOrders() {
	ctx := context.Background()

	suite.Require().NoError(suite.repo.Publish(ctx, suite.newOrder("ord_1", 0)))
	suite.Require().NoError(suite.repo.Publish(ctx, suite.newOrder("ord_2", 0)))

	suite.Require().NoError(suite.repo.Remove(ctx, "zone_40.68_-73.97", "ord_1"))

	pending, err := suite.repo.PendingInZone(ctx, "zone_40.68_-73.97")

	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal("ord_2", pending[0].ID())
}

func (suite *RedisBatchRepositoryTestSuite) TestRemove_AlreadyRemovedOrderIsNoOp() {
	ctx := context.Background()

	suite.Require().NoError(suite.repo.Remove(ctx, "zone_40.68_-73.97", "ord_ghost"))
}

func (suite *RedisBatchRepositoryTestSuite) TestMarkAssigned_RoundTripsThroughIsAssigned() {
	ctx := context.Background()

	assigned, err := suite.repo.IsAssigned(ctx, "ord_1")
	suite.Require().NoError(err)
	suite.False(assigned)

	suite.Require().NoError(suite.repo.MarkAssigned(ctx, "ord_1"))

	assigned, err = suite.repo.IsAssigned(ctx, "ord_1")
	suite.Require().NoError(err)
	suite.True(assigned)

	ttl, err := suite.client.TTL(ctx, "order:ord_1:assigned").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, batchrepo.MarkerTTL)
}

func TestRedisBatchRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisBatchRepositoryTestSuite))
}
