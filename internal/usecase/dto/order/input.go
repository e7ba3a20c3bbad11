package orderdto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	AgentCode string
	// OrderNumber is generated when empty.
	OrderNumber   string
	Amount        decimal.Decimal
	ActualPaid    decimal.Decimal
	PaymentMethod string
	Duration      string
}

type ConfirmPaymentInput struct {
	OrderID    string
	ActualPaid *decimal.Decimal
	PaidAt     *time.Time
}

type ConfirmConfigInput struct {
	OrderID     string
	EffectiveAt *time.Time
}
