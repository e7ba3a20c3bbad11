package domain

import (
	"context"
	"time"
)

type SettlementComputedEvent struct {
	EventID          string    `json:"event_id"`
	AgentCode        string    `json:"agent_code"`
	Tier             AgentTier `json:"tier"`
	Window           Window    `json:"window"`
	QualifyingAmount string    `json:"qualifying_amount"`
	TotalCommission  string    `json:"total_commission"`
	BlendedRate      string    `json:"blended_rate"`
	FlagCount        int       `json:"flag_count"`
	ComputedAt       time.Time `json:"computed_at"`
}

type OrderStatusEvent struct {
	EventID          string    `json:"event_id"`
	OrderID          string    `json:"order_id"`
	OrderNumber      string    `json:"order_number"`
	AgentCode        string    `json:"agent_code"`
	Status           string    `json:"status"`
	CommissionAmount string    `json:"commission_amount,omitempty"`
	PrimaryOverride  string    `json:"primary_override,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

type ReminderDueEvent struct {
	EventID         string    `json:"event_id"`
	OrderID         string    `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	AgentCode       string    `json:"agent_code"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	ExpiryTime      time.Time `json:"expiry_time"`
}

type EventPublisher interface {
	PublishSettlement(ctx context.Context, event SettlementComputedEvent) error
	PublishOrderStatus(ctx context.Context, event OrderStatusEvent) error
	PublishReminderDue(ctx context.Context, event ReminderDueEvent) error
}

// ReminderStore remembers which orders were already reminded so repeated
// scans do not notify twice.
type ReminderStore interface {
	MarkReminded(ctx context.Context, orderID string, ttl time.Duration) error
	Reminded(ctx context.Context, orderIDs []string) (map[string]bool, error)
}
