package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

const (
	EventSettlementComputed = "settlement.computed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderReminderDue   = "order.reminder_due"
	eventTypeHeader         = "event_type"
	defaultPublishTimeout   = 5 * time.Second
)

// CommissionEventPublisher serialises domain events as JSON onto one topic,
// keyed by agent code so one agent's events stay ordered.
type CommissionEventPublisher struct {
	port    domain.PublisherPort
	topic   string
	timeout time.Duration
}

func NewCommissionEventPublisher(port domain.PublisherPort, topic string) *CommissionEventPublisher {
	return &CommissionEventPublisher{
		port:    port,
		topic:   topic,
		timeout: defaultPublishTimeout,
	}
}

func (p *CommissionEventPublisher) PublishSettlement(ctx context.Context, event domain.SettlementComputedEvent) error {
	return p.publish(ctx, EventSettlementComputed, event.AgentCode, event)
}

func (p *CommissionEventPublisher) PublishOrderStatus(ctx context.Context, event domain.OrderStatusEvent) error {
	return p.publish(ctx, EventOrderStatusChanged, event.AgentCode, event)
}

func (p *CommissionEventPublisher) PublishReminderDue(ctx context.Context, event domain.ReminderDueEvent) error {
	return p.publish(ctx, EventOrderReminderDue, event.AgentCode, event)
}

func (p *CommissionEventPublisher) publish(ctx context.Context, eventType, key string, event any) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.port.Publish(ctx, p.topic, domain.Message{
		Key:     []byte(key),
		Value:   v,
		Headers: map[string]string{eventTypeHeader: eventType},
	})
}
