package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/000000000000/order-batching.fifo"

const validOrderBody = `{
	"order_id": "ord_1",
	"attempt": 0,
	"restaurant_location": {"latitude": 40.6783, "longitude": -73.9655},
	"delivery_location": {"latitude": 40.6850, "longitude": -73.9700},
	"pickup_zone": "zone_40.68_-73.97"
}`

type MockReceiver struct{ mock.Mock }

func (m *MockReceiver) ReceiveMessage(
	ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options),
) (*sqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.ReceiveMessageOutput), args.Error(1)
}

func (m *MockReceiver) DeleteMessage(
	ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options),
) (*sqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.DeleteMessageOutput), args.Error(1)
}

type MockMatchHandler struct{ mock.Mock }

func (m *MockMatchHandler) Handle(ctx context.Context, command commands.MatchOrderCommand) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMessage(body string) types.Message {
	return types.Message{
		Body:          aws.String(body),
		ReceiptHandle: aws.String("receipt-1"),
	}
}

func TestConsumer_ProcessMessage_SuccessDeletes(t *testing.T) {
	ctx := t.Context()

	client := new(MockReceiver)
	handler := new(MockMatchHandler)

	handler.On("Handle", ctx, mock.MatchedBy(func(c commands.MatchOrderCommand) bool {
		return c.Order().ID() == "ord_1" && c.Order().Attempt() == 0
	})).Return(nil).Once()
	client.On("DeleteMessage", ctx, mock.MatchedBy(func(in *sqs.DeleteMessageInput) bool {
		return aws.ToString(in.QueueUrl) == testQueueURL &&
			aws.ToString(in.ReceiptHandle) == "receipt-1"
	})).Return(&sqs.DeleteMessageOutput{}, nil).Once()

	consumer := NewConsumer(client, testQueueURL, handler, testLogger())
	consumer.processMessage(ctx, testMessage(validOrderBody))

	handler.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestConsumer_ProcessMessage_PoisonBodyDeletedWithoutHandling(t *testing.T) {
	ctx := t.Context()

	client := new(MockReceiver)
	handler := new(MockMatchHandler)

	client.On("DeleteMessage", ctx, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil).Once()

	consumer := NewConsumer(client, testQueueURL, handler, testLogger())
	consumer.processMessage(ctx, testMessage("{not json"))

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestConsumer_ProcessMessage_MissingLocationIsPoison(t *testing.T) {
	ctx := t.Context()

	client := new(MockReceiver)
	handler := new(MockMatchHandler)

	client.On("DeleteMessage", ctx, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil).Once()

	body := `{"order_id": "ord_1", "attempt": 0, "pickup_zone": "zone_40.68_-73.97"}`
	consumer := NewConsumer(client, testQueueURL, handler, testLogger())
	consumer.processMessage(ctx, testMessage(body))

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestConsumer_ProcessMessage_TransientErrorLeavesMessageInFlight(t *testing.T) {
	ctx := t.Context()

	client := new(MockReceiver)
	handler := new(MockMatchHandler)

	handler.On("Handle", ctx, mock.AnythingOfType("commands.MatchOrderCommand")).
		Return(errors.New("store unavailable")).Once()

	consumer := NewConsumer(client, testQueueURL, handler, testLogger())
	consumer.processMessage(ctx, testMessage(validOrderBody))

	client.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
	handler.AssertExpectations(t)
}

func TestConsumer_Run_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	client := new(MockReceiver)
	handler := new(MockMatchHandler)

	client.On("ReceiveMessage", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Run(func(args mock.Arguments) { cancel() }).
		Return(&sqs.ReceiveMessageOutput{}, nil)

	consumer := NewConsumer(client, testQueueURL, handler, testLogger())
	err := consumer.Run(ctx)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseOrderMessage_CarriesAttemptCounter(t *testing.T) {
	body := `{
		"order_id": "ord_9",
		"attempt": 3,
		"restaurant_location": {"latitude": 40.0, "longitude": -73.0},
		"delivery_location": {"latitude": 40.1, "longitude": -73.1},
		"pickup_zone": "zone_40.00_-73.00"
	}`

	o, err := parseOrderMessage(body)

	require.NoError(t, err)
	assert.Equal(t, "ord_9", o.ID())
	assert.Equal(t, 3, o.Attempt())
	assert.Equal(t, "zone_40.00_-73.00", o.PickupZone())
}

func TestParseOrderMessage_RejectsOutOfRangeCoordinates(t *testing.T) {
	body := `{
		"order_id": "ord_1",
		"attempt": 0,
		"restaurant_location": {"latitude": 95.0, "longitude": -73.0},
		"delivery_location": {"latitude": 40.1, "longitude": -73.1},
		"pickup_zone": "zone"
	}`

	_, err := parseOrderMessage(body)

	require.Error(t, err)
}
