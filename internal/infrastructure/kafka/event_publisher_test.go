package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishSettlementEvent(t *testing.T) {
	w := &fakeWriter{}
	pub := NewCommissionEventPublisher(&DefaultKafkaPublisher{writer: w}, "commission-events")

	err := pub.PublishSettlement(context.Background(), domain.SettlementComputedEvent{
		EventID:         "e1",
		AgentCode:       "P1",
		Tier:            domain.TierPrimary,
		Window:          domain.WindowMonth,
		TotalCommission: "700",
		ComputedAt:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	require.Equal(t, "commission-events", msg.Topic)
	require.Equal(t, "P1", string(msg.Key))
	require.Equal(t, EventSettlementComputed, header(msg, eventTypeHeader))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, "700", decoded["total_commission"])
	require.Equal(t, "month", decoded["window"])
}

func TestPublishOrderAndReminderEvents(t *testing.T) {
	w := &fakeWriter{}
	pub := NewCommissionEventPublisher(&DefaultKafkaPublisher{writer: w}, "commission-events")

	require.NoError(t, pub.PublishOrderStatus(context.Background(), domain.OrderStatusEvent{OrderID: "o1", AgentCode: "S1", Status: "active"}))
	require.NoError(t, pub.PublishReminderDue(context.Background(), domain.ReminderDueEvent{OrderID: "o1", AgentCode: "S1", DaysUntilExpiry: 2}))

	require.Len(t, w.messages, 2)
	require.Equal(t, EventOrderStatusChanged, header(w.messages[0], eventTypeHeader))
	require.Equal(t, EventOrderReminderDue, header(w.messages[1], eventTypeHeader))
	require.Equal(t, "S1", string(w.messages[1].Key))
}

func TestPublishPropagatesWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	pub := NewCommissionEventPublisher(&DefaultKafkaPublisher{writer: w}, "t")
	err := pub.PublishOrderStatus(context.Background(), domain.OrderStatusEvent{OrderID: "o1"})
	require.ErrorContains(t, err, "leader not available")

	k := &DefaultKafkaPublisher{writer: w}
	require.NoError(t, k.Close())
	require.True(t, w.closed)
}
