package cmd

import (
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/queue"
	"dispatch/internal/adapters/out/redis/batchrepo"
	"dispatch/internal/adapters/out/redis/partnerrepo"
	"dispatch/internal/adapters/out/sqsqueue"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/jobs"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"
)

type CompositionRoot struct {
	config      Config
	redisClient *redis.Client
	sqsClient   *sqs.Client
	logger      *slog.Logger
}

func NewCompositionRoot(config Config, redisClient *redis.Client, sqsClient *sqs.Client, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:      config,
		redisClient: redisClient,
		sqsClient:   sqsClient,
		logger:      logger,
	}
}

func (c *CompositionRoot) CreateAssignPartnerCommandHandler() commands.AssignPartnerCommandHandler {
	return commands.NewAssignPartnerCommandHandler(
		partnerrepo.NewRedisPartnerRepository(c.redisClient),
		batchrepo.NewRedisBatchRepository(c.redisClient),
		sqsqueue.NewDeliveryQueue(c.sqsClient, c.config.DeliveryQueueURL),
		c.logger,
	)
}

func (c *CompositionRoot) CreateMatchOrderCommandHandler() commands.MatchOrderCommandHandler {
	assigner := c.CreateAssignPartnerCommandHandler()
	return commands.NewMatchOrderCommandHandler(
		batchrepo.NewRedisBatchRepository(c.redisClient),
		sqsqueue.NewOrderQueue(c.sqsClient, c.config.OrderBatchingQueueURL),
		assigner,
		c.logger,
	)
}

func (c *CompositionRoot) CreateUpdatePartnerLocationCommandHandler() commands.UpdatePartnerLocationCommandHandler {
	return commands.NewUpdatePartnerLocationCommandHandler(
		partnerrepo.NewRedisPartnerRepository(c.redisClient),
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetAllPartnersQueryHandler() queries.GetAllPartnersQueryHandler {
	return queries.NewGetAllPartnersQueryHandler(c.redisClient)
}

func (c *CompositionRoot) CreateOrderConsumer() *queue.Consumer {
	handler := c.CreateMatchOrderCommandHandler()
	return queue.NewConsumer(c.sqsClient, c.config.OrderBatchingQueueURL, handler, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateUpdatePartnerLocationCommandHandler(),
		c.CreateGetAllPartnersQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateUpdatePartnerLocationCommandHandler(),
		c.config.SimulationPartnerCount,
		c.logger,
	)
}
