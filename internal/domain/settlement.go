package domain

import "github.com/shopspring/decimal"

type FlagReason string

const (
	FlagInvalidRate       FlagReason = "invalid_rate"
	FlagInvalidAmount     FlagReason = "invalid_amount"
	FlagUnknownStatus     FlagReason = "unknown_status"
	FlagRateInversion     FlagReason = "rate_inversion"
	FlagMissingParentLink FlagReason = "missing_parent_link"
)

// Flag marks an order that was excluded from, or is suspect in, a
// settlement. Flags are returned alongside totals so operators can
// reconcile them.
type Flag struct {
	OrderID     string     `json:"order_id,omitempty"`
	OrderNumber string     `json:"order_number,omitempty"`
	AgentCode   string     `json:"agent_code"`
	Reason      FlagReason `json:"reason"`
	Detail      string     `json:"detail"`
}

type OrderCommission struct {
	OrderID            string
	AgentCode          string
	Tier               AgentTier
	ParentCode         string
	SettlementAmount   decimal.Decimal
	DirectCommission   decimal.Decimal
	OverrideCommission decimal.Decimal
	EffectiveRate      decimal.Decimal
	Flag               *Flag
}

// Total is what the order pays out across both tiers.
func (c *OrderCommission) Total() decimal.Decimal {
	return c.DirectCommission.Add(c.OverrideCommission)
}

type SubordinateStats struct {
	AgentCode        string
	Handle           string
	Rate             decimal.Decimal
	OrderCount       int
	Amount           decimal.Decimal
	DirectCommission decimal.Decimal
	Override         decimal.Decimal
}

type AgentStats struct {
	AgentCode              string
	Window                 Window
	OrderCount             int
	ActiveOrderCount       int
	OwnAmount              decimal.Decimal
	SubordinateAmount      decimal.Decimal
	DirectCommission       decimal.Decimal
	OverrideCommission     decimal.Decimal
	TotalCommission        decimal.Decimal
	BlendedRate            decimal.Decimal
	AverageSubordinateRate decimal.Decimal
	Subordinates           []SubordinateStats
	Flags                  []Flag
}

func (s *AgentStats) QualifyingAmount() decimal.Decimal {
	return s.OwnAmount.Add(s.SubordinateAmount)
}

type ReminderOrder struct {
	Order           *Order
	DaysUntilExpiry int
	ThresholdDays   int
	IsReminded      bool
}

type PeriodSummary struct {
	OrderCount      int
	Amount          decimal.Decimal
	TotalCommission decimal.Decimal
}

type Settlement struct {
	Agent                  *Agent
	Window                 Window
	Own                    AgentStats
	Subordinates           []SubordinateStats
	BlendedRate            decimal.Decimal
	AverageSubordinateRate decimal.Decimal
	Periods                map[Window]PeriodSummary
	Reminders              []ReminderOrder
	Flags                  []Flag
}
