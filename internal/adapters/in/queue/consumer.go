// Package queue implements the inbound adapter of the dispatch core: a
// long-polling consumer on the order-batching queue that drives the batch
// matcher.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const (
	maxMessagesPerPoll  = 10
	waitTimeSeconds     = 20
	visibilityTimeoutSc = 60
)

// receiver is the slice of the SQS client the consumer needs.
type receiver interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// matchHandler abstracts the batch matcher for testability.
type matchHandler interface {
	Handle(ctx context.Context, command commands.MatchOrderCommand) error
}

// Consumer long-polls the order-batching queue and feeds each message
// through the batch matcher.
//
// Redelivery policy:
//   - handled successfully: message deleted.
//   - poison (unparseable body or missing required fields): logged and
//     deleted, never requeued. Rejecting deterministically beats cycling a
//     message that can never succeed.
//   - transient handler error: message left in flight, the visibility
//     timeout redelivers it. The matcher's idempotency check makes the
//     replay safe.
type Consumer struct {
	client   receiver
	queueURL string
	handler  matchHandler
	logger   *slog.Logger
}

// NewConsumer creates a consumer for the order-batching queue.
func NewConsumer(client receiver, queueURL string, handler matchHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		client:   client,
		queueURL: queueURL,
		handler:  handler,
		logger:   logger.With("component", "order_consumer"),
	}
}

// Run polls until the context is cancelled. Receive errors are logged and
// retried; only context cancellation ends the loop.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "Order consumer started", "queue", c.queueURL)

	for {
		if err := ctx.Err(); err != nil {
			c.logger.InfoContext(ctx, "Order consumer stopped")
			return err
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: maxMessagesPerPoll,
			WaitTimeSeconds:     waitTimeSeconds,
			VisibilityTimeout:   visibilityTimeoutSc,
		})
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			c.logger.ErrorContext(ctx, "Receive failed", "error", err)
			continue
		}

		for _, message := range out.Messages {
			c.processMessage(ctx, message)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) {
	o, err := parseOrderMessage(aws.ToString(message.Body))
	if err != nil {
		c.logger.ErrorContext(ctx, "Dropping poison message", "error", err)
		c.deleteMessage(ctx, message)
		return
	}

	command, err := commands.NewMatchOrderCommand(o)
	if err != nil {
		c.logger.ErrorContext(ctx, "Dropping poison message", "order_id", o.ID(), "error", err)
		c.deleteMessage(ctx, message)
		return
	}

	if err = c.handler.Handle(ctx, command); err != nil {
		// Left in flight for redelivery after the visibility timeout.
		c.logger.ErrorContext(ctx, "Matching failed, message will be redelivered",
			"order_id", o.ID(), "error", err)
		return
	}

	c.deleteMessage(ctx, message)
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Delete failed", "error", err)
	}
}

// inboundLocation mirrors the wire coordinate shape. Pointers distinguish
// a missing block from valid zero coordinates.
type inboundLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// inboundOrder is the order-batching queue message shape.
type inboundOrder struct {
	OrderID            string           `json:"order_id"`
	Attempt            int              `json:"attempt"`
	RestaurantLocation *inboundLocation `json:"restaurant_location"`
	DeliveryLocation   *inboundLocation `json:"delivery_location"`
	PickupZone         string           `json:"pickup_zone"`
}

// parseOrderMessage validates the message at the boundary: required fields
// must be present and coordinates in range, so missing fields surface as a
// deterministic rejection instead of propagating as zero values.
func parseOrderMessage(body string) (*order.Order, error) {
	var msg inboundOrder
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return nil, fmt.Errorf("unmarshal order message: %w", err)
	}

	restaurant, err := parseLocation("restaurant_location", msg.RestaurantLocation)
	if err != nil {
		return nil, err
	}

	destination, err := parseLocation("delivery_location", msg.DeliveryLocation)
	if err != nil {
		return nil, err
	}

	return order.NewOrder(msg.OrderID, restaurant, destination, msg.PickupZone, msg.Attempt)
}

func parseLocation(field string, loc *inboundLocation) (kernel.GeoPoint, error) {
	if loc == nil || loc.Latitude == nil || loc.Longitude == nil {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError(field)
	}

	point, err := kernel.NewGeoPoint(*loc.Latitude, *loc.Longitude)
	if err != nil {
		return kernel.GeoPoint{}, errors.Join(errs.NewValueIsInvalidError(field), err)
	}

	return point, nil
}
