package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string
	OrderNumber   string
	AgentCode     string
	Amount        decimal.Decimal
	ActualPaid    decimal.Decimal
	PaymentMethod string
	Duration      string
	Status        string

	CommissionAmount    decimal.Decimal
	SecondaryCommission decimal.Decimal
	PrimaryOverride     decimal.Decimal

	CreatedAt     time.Time
	PaymentTime   *time.Time
	EffectiveTime *time.Time
	ExpiryTime    *time.Time
	IsReminded    bool
	UpdatedAt     time.Time
}

// PaidAmount is the actual paid amount when present and nonzero, the nominal
// amount otherwise.
func (o *Order) PaidAmount() decimal.Decimal {
	if !o.ActualPaid.IsZero() {
		return o.ActualPaid
	}
	return o.Amount
}

// SettledAt is the instant used for time windows: payment time, falling back
// to the effective time.
func (o *Order) SettledAt() *time.Time {
	if o.PaymentTime != nil {
		return o.PaymentTime
	}
	return o.EffectiveTime
}

func (o *Order) Canonical() OrderStatus {
	return ClassifyStatus(o.Status)
}

type DateRange struct {
	From time.Time
	To   time.Time
}

func (r *DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

type OrderRepository interface {
	ListOrdersForAgent(ctx context.Context, agentCode string, dateRange *DateRange) ([]*Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	CreateOrder(ctx context.Context, order *Order) error
	UpdateOrder(ctx context.Context, order *Order) error
	FindExpiredActive(ctx context.Context, now time.Time) ([]*Order, error)
	FindExpiringBefore(ctx context.Context, before time.Time) ([]*Order, error)
}
