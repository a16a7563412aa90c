// Package sqsqueue implements the outbound queue ports on AWS SQS FIFO
// queues. Grouping keys keep same-zone (inbound) and same-partner
// (delivery) messages ordered; deduplication keys make re-emission under
// at-least-once processing harmless.
package sqsqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/order"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// sender is the slice of the SQS client the publishers need.
type sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// OrderQueue publishes requeued orders back onto the order-batching queue.
type OrderQueue struct {
	client   sender
	queueURL string
}

// NewOrderQueue creates a publisher for the order-batching queue.
func NewOrderQueue(client sender, queueURL string) *OrderQueue {
	return &OrderQueue{client: client, queueURL: queueURL}
}

// PublishOrder sends the order message, grouped by pickup zone and
// deduplicated per (order, attempt) so one batching cycle requeues at most
// once.
func (q *OrderQueue) PublishOrder(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(toOrderMessage(o))
	if err != nil {
		return fmt.Errorf("marshal order message: %w", err)
	}

	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:               aws.String(q.queueURL),
		MessageBody:            aws.String(string(body)),
		MessageGroupId:         aws.String(o.PickupZone()),
		MessageDeduplicationId: aws.String(fmt.Sprintf("%s|attempt-%d", o.ID(), o.Attempt())),
	})
	if err != nil {
		return fmt.Errorf("send order message: %w", err)
	}

	return nil
}

// DeliveryQueue publishes delivery assignments for downstream consumers.
type DeliveryQueue struct {
	client   sender
	queueURL string
}

// NewDeliveryQueue creates a publisher for the delivery queue.
func NewDeliveryQueue(client sender, queueURL string) *DeliveryQueue {
	return &DeliveryQueue{client: client, queueURL: queueURL}
}

// PublishAssignment sends the assignment event, grouped by partner and
// deduplicated by delivery id and status.
func (q *DeliveryQueue) PublishAssignment(ctx context.Context, a *delivery.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(toAssignmentMessage(a))
	if err != nil {
		return fmt.Errorf("marshal assignment message: %w", err)
	}

	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:               aws.String(q.queueURL),
		MessageBody:            aws.String(string(body)),
		MessageGroupId:         aws.String(a.GroupKey()),
		MessageDeduplicationId: aws.String(a.DedupKey()),
	})
	if err != nil {
		return fmt.Errorf("send assignment message: %w", err)
	}

	return nil
}
