package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

// Publisher records events instead of sending them.
type Publisher struct {
	mu          sync.Mutex
	Settlements []domain.SettlementComputedEvent
	OrderEvents []domain.OrderStatusEvent
	Reminders   []domain.ReminderDueEvent
	FailWith    error
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) PublishSettlement(ctx context.Context, event domain.SettlementComputedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.Settlements = append(p.Settlements, event)
	return nil
}

func (p *Publisher) PublishOrderStatus(ctx context.Context, event domain.OrderStatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.OrderEvents = append(p.OrderEvents, event)
	return nil
}

func (p *Publisher) PublishReminderDue(ctx context.Context, event domain.ReminderDueEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.Reminders = append(p.Reminders, event)
	return nil
}
