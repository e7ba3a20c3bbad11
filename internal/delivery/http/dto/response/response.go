package response

import (
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AgentResponse struct {
	Code             string     `json:"code"`
	Handle           string     `json:"handle"`
	Tier             string     `json:"tier"`
	ParentCode       string     `json:"parent_code,omitempty"`
	RegistrationCode string     `json:"registration_code,omitempty"`
	Rate             string     `json:"rate"`
	RatePercent      string     `json:"rate_percent"`
	RemovedAt        *time.Time `json:"removed_at,omitempty"`
}

type OrderResponse struct {
	ID                  string     `json:"id"`
	OrderNumber         string     `json:"order_number"`
	AgentCode           string     `json:"agent_code"`
	Amount              string     `json:"amount"`
	ActualPaid          string     `json:"actual_paid"`
	PaymentMethod       string     `json:"payment_method,omitempty"`
	Duration            string     `json:"duration"`
	Status              string     `json:"status"`
	CommissionAmount    string     `json:"commission_amount"`
	SecondaryCommission string     `json:"secondary_commission"`
	PrimaryOverride     string     `json:"primary_override"`
	CreatedAt           time.Time  `json:"created_at"`
	PaymentTime         *time.Time `json:"payment_time,omitempty"`
	EffectiveTime       *time.Time `json:"effective_time,omitempty"`
	ExpiryTime          *time.Time `json:"expiry_time,omitempty"`
	IsReminded          bool       `json:"is_reminded"`
}

type CommissionResponse struct {
	OrderID            string       `json:"order_id,omitempty"`
	AgentCode          string       `json:"agent_code"`
	Tier               string       `json:"tier,omitempty"`
	ParentCode         string       `json:"parent_code,omitempty"`
	SettlementAmount   string       `json:"settlement_amount"`
	SettlementCurrency string       `json:"settlement_currency"`
	DirectCommission   string       `json:"direct_commission"`
	OverrideCommission string       `json:"override_commission"`
	TotalCommission    string       `json:"total_commission"`
	EffectiveRate      string       `json:"effective_rate"`
	Flag               *domain.Flag `json:"flag,omitempty"`
}

type StatsResponse struct {
	OrderCount         int    `json:"order_count"`
	ActiveOrderCount   int    `json:"active_order_count"`
	OwnAmount          string `json:"own_amount"`
	SubordinateAmount  string `json:"subordinate_amount"`
	DirectCommission   string `json:"direct_commission"`
	OverrideCommission string `json:"override_commission"`
	TotalCommission    string `json:"total_commission"`
}

type SubordinateResponse struct {
	AgentCode        string `json:"agent_code"`
	Handle           string `json:"handle,omitempty"`
	Rate             string `json:"rate"`
	OrderCount       int    `json:"order_count"`
	Amount           string `json:"amount"`
	DirectCommission string `json:"direct_commission"`
	Override         string `json:"override"`
}

type PeriodResponse struct {
	OrderCount      int    `json:"order_count"`
	Amount          string `json:"amount"`
	TotalCommission string `json:"total_commission"`
}

type ReminderResponse struct {
	OrderID         string    `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	ExpiryTime      time.Time `json:"expiry_time"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	ThresholdDays   int       `json:"threshold_days"`
	IsReminded      bool      `json:"is_reminded"`
}

type SettlementResponse struct {
	Agent                  AgentResponse             `json:"agent"`
	Window                 string                    `json:"window"`
	Own                    StatsResponse             `json:"own"`
	Subordinates           []SubordinateResponse     `json:"subordinates"`
	BlendedRate            string                    `json:"blended_rate"`
	BlendedRatePercent     string                    `json:"blended_rate_percent"`
	AverageSubordinateRate string                    `json:"average_subordinate_rate"`
	Periods                map[string]PeriodResponse `json:"periods"`
	Reminders              []ReminderResponse        `json:"reminders"`
	Flags                  []domain.Flag             `json:"flags"`
}

func FromAgent(a *domain.Agent) AgentResponse {
	return AgentResponse{
		Code:             a.Code,
		Handle:           a.Handle,
		Tier:             string(a.Tier),
		ParentCode:       a.ParentCode,
		RegistrationCode: a.RegistrationCode,
		Rate:             a.Rate.String(),
		RatePercent:      percent(a.Rate),
		RemovedAt:        a.RemovedAt,
	}
}

func FromOrder(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		AgentCode:           o.AgentCode,
		Amount:              o.Amount.String(),
		ActualPaid:          o.ActualPaid.String(),
		PaymentMethod:       o.PaymentMethod,
		Duration:            o.Duration,
		Status:              o.Status,
		CommissionAmount:    o.CommissionAmount.String(),
		SecondaryCommission: o.SecondaryCommission.String(),
		PrimaryOverride:     o.PrimaryOverride.String(),
		CreatedAt:           o.CreatedAt,
		PaymentTime:         o.PaymentTime,
		EffectiveTime:       o.EffectiveTime,
		ExpiryTime:          o.ExpiryTime,
		IsReminded:          o.IsReminded,
	}
}

func FromCommission(c *domain.OrderCommission, currency string) CommissionResponse {
	return CommissionResponse{
		OrderID:            c.OrderID,
		AgentCode:          c.AgentCode,
		Tier:               string(c.Tier),
		ParentCode:         c.ParentCode,
		SettlementAmount:   c.SettlementAmount.String(),
		SettlementCurrency: currency,
		DirectCommission:   c.DirectCommission.String(),
		OverrideCommission: c.OverrideCommission.String(),
		TotalCommission:    c.Total().String(),
		EffectiveRate:      c.EffectiveRate.String(),
		Flag:               c.Flag,
	}
}

func FromSettlement(s *domain.Settlement) SettlementResponse {
	resp := SettlementResponse{
		Agent:  FromAgent(s.Agent),
		Window: string(s.Window),
		Own: StatsResponse{
			OrderCount:         s.Own.OrderCount,
			ActiveOrderCount:   s.Own.ActiveOrderCount,
			OwnAmount:          s.Own.OwnAmount.String(),
			SubordinateAmount:  s.Own.SubordinateAmount.String(),
			DirectCommission:   s.Own.DirectCommission.String(),
			OverrideCommission: s.Own.OverrideCommission.String(),
			TotalCommission:    s.Own.TotalCommission.String(),
		},
		Subordinates:           make([]SubordinateResponse, 0, len(s.Subordinates)),
		BlendedRate:            s.BlendedRate.String(),
		BlendedRatePercent:     percent(s.BlendedRate),
		AverageSubordinateRate: s.AverageSubordinateRate.String(),
		Periods:                make(map[string]PeriodResponse, len(s.Periods)),
		Reminders:              make([]ReminderResponse, 0, len(s.Reminders)),
		Flags:                  s.Flags,
	}
	if resp.Flags == nil {
		resp.Flags = []domain.Flag{}
	}
	for _, sub := range s.Subordinates {
		resp.Subordinates = append(resp.Subordinates, SubordinateResponse{
			AgentCode:        sub.AgentCode,
			Handle:           sub.Handle,
			Rate:             sub.Rate.String(),
			OrderCount:       sub.OrderCount,
			Amount:           sub.Amount.String(),
			DirectCommission: sub.DirectCommission.String(),
			Override:         sub.Override.String(),
		})
	}
	for w, p := range s.Periods {
		resp.Periods[string(w)] = PeriodResponse{
			OrderCount:      p.OrderCount,
			Amount:          p.Amount.String(),
			TotalCommission: p.TotalCommission.String(),
		}
	}
	for _, r := range s.Reminders {
		resp.Reminders = append(resp.Reminders, ReminderResponse{
			OrderID:         r.Order.ID,
			OrderNumber:     r.Order.OrderNumber,
			ExpiryTime:      *r.Order.ExpiryTime,
			DaysUntilExpiry: r.DaysUntilExpiry,
			ThresholdDays:   r.ThresholdDays,
			IsReminded:      r.IsReminded,
		})
	}
	return resp
}

func percent(rate decimal.Decimal) string {
	p, err := domain.ToPercent(rate)
	if err != nil {
		return ""
	}
	return p.StringFixed(2)
}
