package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type ComputeCommissionRequest struct {
	OrderID       string          `json:"order_id"`
	AgentCode     string          `json:"agent_code" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	ActualPaid    decimal.Decimal `json:"actual_paid"`
	PaymentMethod string          `json:"payment_method"`
}

type CreateOrderRequest struct {
	AgentCode     string          `json:"agent_code" validate:"required"`
	OrderNumber   string          `json:"order_number,omitempty" validate:"omitempty,max=64"`
	Amount        decimal.Decimal `json:"amount"`
	ActualPaid    decimal.Decimal `json:"actual_paid"`
	PaymentMethod string          `json:"payment_method" validate:"max=32"`
	Duration      string          `json:"duration" validate:"required"`
}

type ConfirmPaymentRequest struct {
	ActualPaid *decimal.Decimal `json:"actual_paid,omitempty"`
	PaidAt     *time.Time       `json:"paid_at,omitempty"`
}

type ConfirmConfigRequest struct {
	EffectiveAt *time.Time `json:"effective_at,omitempty"`
}
