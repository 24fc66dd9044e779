package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendingverse/credit-scoring/internal/domain/event"
	"github.com/lendingverse/credit-scoring/pkg/kafka"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, topic string, messages ...kafka.Message) error
}

func (m *mockProducer) Publish(ctx context.Context, topic string, messages ...kafka.Message) error {
	return m.publishFunc(ctx, topic, messages...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestKafkaEventPublisherPublish(t *testing.T) {
	var gotTopic string
	var gotMessages []kafka.Message
	producer := &mockProducer{
		publishFunc: func(_ context.Context, topic string, messages ...kafka.Message) error {
			gotTopic = topic
			gotMessages = messages
			return nil
		},
	}
	publisher := &KafkaEventPublisher{producer: producer, topic: "scoring.events", logger: testLogger()}

	evt := event.NewAssessmentCompleted("assessment-1", "borrower-9", "B", 82.5, 0.175, "Medium", false, "")
	err := publisher.Publish(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, "scoring.events", gotTopic)
	require.Len(t, gotMessages, 1)
	assert.Equal(t, []byte("assessment-1"), gotMessages[0].Key)
	assert.Equal(t, "scoring.assessment.completed", gotMessages[0].Headers["event_type"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotMessages[0].Value, &payload))
	assert.Equal(t, "borrower-9", payload["borrower_id"])
	assert.Equal(t, "B", payload["category"])
}

func TestKafkaEventPublisherProducerError(t *testing.T) {
	producer := &mockProducer{
		publishFunc: func(context.Context, string, ...kafka.Message) error {
			return errors.New("broker unavailable")
		},
	}
	publisher := &KafkaEventPublisher{producer: producer, topic: "scoring.events", logger: testLogger()}

	err := publisher.Publish(context.Background(), event.NewAssessmentFailed("assessment-2", "", "insufficient data"))
	assert.ErrorContains(t, err, "broker unavailable")
}

func TestLogEventPublisherNeverFails(t *testing.T) {
	publisher := NewLogEventPublisher(testLogger())

	err := publisher.Publish(context.Background(),
		event.NewAssessmentCompleted("assessment-3", "borrower-1", "A", 95, 0.02, "Low", true, "out.json"),
		event.NewAssessmentFailed("assessment-4", "borrower-1", "credit scoring failed"),
	)
	assert.NoError(t, err)
}
