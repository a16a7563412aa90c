package sqsqueue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/000000000000/test.fifo"

type MockSender struct{ mock.Mock }

func (m *MockSender) SendMessage(
	ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options),
) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func newTestOrder(t *testing.T, id string, attempt int) *order.Order {
	t.Helper()
	restaurant, err := kernel.NewGeoPoint(40.6783, -73.9655)
	require.NoError(t, err)
	dropoff, err := kernel.NewGeoPoint(40.6850, -73.9700)
	require.NoError(t, err)

	o, err := order.NewOrder(id, restaurant, dropoff, "zone_40.68_-73.97", attempt)
	require.NoError(t, err)
	return o
}

func TestOrderQueue_PublishOrder_SetsFifoAttributes(t *testing.T) {
	ctx := t.Context()
	o := newTestOrder(t, "ord_1", 2)

	var captured *sqs.SendMessageInput
	client := new(MockSender)
	client.On("SendMessage", ctx, mock.AnythingOfType("*sqs.SendMessageInput")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*sqs.SendMessageInput)
		}).
		Return(&sqs.SendMessageOutput{}, nil).Once()

	queue := NewOrderQueue(client, testQueueURL)
	err := queue.PublishOrder(ctx, o)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, testQueueURL, aws.ToString(captured.QueueUrl))
	assert.Equal(t, "zone_40.68_-73.97", aws.ToString(captured.MessageGroupId))
	assert.Equal(t, "ord_1|attempt-2", aws.ToString(captured.MessageDeduplicationId))

	var msg orderMessage
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(captured.MessageBody)), &msg))
	assert.Equal(t, "ord_1", msg.OrderID)
	assert.Equal(t, 2, msg.Attempt)
	assert.InDelta(t, 40.6783, msg.RestaurantLocation.Latitude, 1e-9)
	assert.InDelta(t, -73.9700, msg.DeliveryLocation.Longitude, 1e-9)
}

func TestOrderQueue_PublishOrder_SendErrorPropagates(t *testing.T) {
	ctx := t.Context()

	client := new(MockSender)
	client.On("SendMessage", ctx, mock.AnythingOfType("*sqs.SendMessageInput")).
		Return(nil, errors.New("queue unavailable")).Once()

	queue := NewOrderQueue(client, testQueueURL)
	err := queue.PublishOrder(ctx, newTestOrder(t, "ord_1", 0))

	require.Error(t, err)
	assert.ErrorContains(t, err, "queue unavailable")
}

func TestDeliveryQueue_PublishAssignment_SetsFifoAttributes(t *testing.T) {
	ctx := t.Context()

	first := newTestOrder(t, "ord_1", 0)
	second := newTestOrder(t, "ord_2", 1)
	timestamp := time.UnixMilli(1_700_000_000_000)

	assignment, err := delivery.NewAssignment("dp_007", []*order.Order{first, second}, timestamp)
	require.NoError(t, err)

	var captured *sqs.SendMessageInput
	client := new(MockSender)
	client.On("SendMessage", ctx, mock.AnythingOfType("*sqs.SendMessageInput")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*sqs.SendMessageInput)
		}).
		Return(&sqs.SendMessageOutput{}, nil).Once()

	queue := NewDeliveryQueue(client, testQueueURL)
	err = queue.PublishAssignment(ctx, assignment)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "dp_007", aws.ToString(captured.MessageGroupId))
	assert.Equal(t, assignment.DedupKey(), aws.ToString(captured.MessageDeduplicationId))

	var msg assignmentMessage
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(captured.MessageBody)), &msg))
	assert.Equal(t, assignment.ID().String(), msg.DeliveryID)
	assert.Equal(t, "dp_007", msg.PartnerID)
	assert.Equal(t, delivery.StatusDPAssigned, msg.Status)
	assert.Equal(t, timestamp.UnixMilli(), msg.Timestamp)
	require.Len(t, msg.Orders, 2)
	assert.Equal(t, "ord_1", msg.Orders[0].OrderID)
	assert.Equal(t, "ord_2", msg.Orders[1].OrderID)
}

func TestDeliveryQueue_PublishAssignment_UnconstructedAssignmentFails(t *testing.T) {
	ctx := t.Context()

	client := new(MockSender)
	queue := NewDeliveryQueue(client, testQueueURL)

	err := queue.PublishAssignment(ctx, &delivery.Assignment{})

	require.Error(t, err)
	client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
