package settlement

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/commission"
	"github.com/shopspring/decimal"
)

const rateScale = 8

type SubordinateOrders struct {
	Agent  *domain.Agent
	Orders []*domain.Order
}

// AggregateInput is everything one agent's settlement is computed from.
// Parent is only set for a linked secondary whose primary resolved.
type AggregateInput struct {
	Agent        *domain.Agent
	Parent       *domain.Agent
	OwnOrders    []*domain.Order
	Subordinates []SubordinateOrders
}

type Aggregator struct {
	engine *commission.Engine
	loc    *time.Location
}

func NewAggregator(engine *commission.Engine, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{engine: engine, loc: loc}
}

func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// AggregateForAgent rolls up the agent's own orders and its subordinates'
// orders falling in window. Orders that cannot be computed are left out and
// reported in Flags.
func (a *Aggregator) AggregateForAgent(in AggregateInput, window domain.Window, now time.Time) domain.AgentStats {
	rng := window.Range(now, a.loc)
	stats := domain.AgentStats{
		AgentCode:              in.Agent.Code,
		Window:                 window,
		OwnAmount:              decimal.Zero,
		SubordinateAmount:      decimal.Zero,
		DirectCommission:       decimal.Zero,
		OverrideCommission:     decimal.Zero,
		AverageSubordinateRate: decimal.Zero,
	}

	for _, order := range in.OwnOrders {
		res, ok := a.qualify(order, in.Agent, in.Parent, rng, &stats.Flags)
		if !ok {
			continue
		}
		stats.OrderCount++
		if domain.CountsAsActive(order.Canonical()) {
			stats.ActiveOrderCount++
		}
		stats.OwnAmount = stats.OwnAmount.Add(res.SettlementAmount)
		stats.DirectCommission = stats.DirectCommission.Add(res.DirectCommission)
	}

	weighted := decimal.Zero
	for _, sub := range in.Subordinates {
		subStats := domain.SubordinateStats{
			AgentCode:        sub.Agent.Code,
			Handle:           sub.Agent.Handle,
			Rate:             sub.Agent.Rate,
			Amount:           decimal.Zero,
			DirectCommission: decimal.Zero,
			Override:         decimal.Zero,
		}
		for _, order := range sub.Orders {
			res, ok := a.qualify(order, sub.Agent, in.Agent, rng, &stats.Flags)
			if !ok {
				continue
			}
			subStats.OrderCount++
			subStats.Amount = subStats.Amount.Add(res.SettlementAmount)
			subStats.DirectCommission = subStats.DirectCommission.Add(res.DirectCommission)
			subStats.Override = subStats.Override.Add(res.OverrideCommission)
		}
		stats.SubordinateAmount = stats.SubordinateAmount.Add(subStats.Amount)
		stats.OverrideCommission = stats.OverrideCommission.Add(subStats.Override)
		weighted = weighted.Add(sub.Agent.Rate.Mul(subStats.Amount))
		stats.Subordinates = append(stats.Subordinates, subStats)
	}

	stats.TotalCommission = stats.DirectCommission.Add(stats.OverrideCommission)
	qualifying := stats.QualifyingAmount()
	if qualifying.IsZero() {
		stats.BlendedRate = in.Agent.Rate
	} else {
		stats.BlendedRate = stats.TotalCommission.DivRound(qualifying, rateScale)
	}
	if stats.SubordinateAmount.IsPositive() {
		stats.AverageSubordinateRate = weighted.DivRound(stats.SubordinateAmount, rateScale)
	}
	return stats
}

func (a *Aggregator) qualify(order *domain.Order, agent, parent *domain.Agent, rng *domain.DateRange, flags *[]domain.Flag) (*domain.OrderCommission, bool) {
	if rng != nil {
		at := order.SettledAt()
		if at == nil || !rng.Contains(*at) {
			return nil, false
		}
	}
	status := order.Canonical()
	if status == domain.StatusUnknown {
		*flags = append(*flags, commission.FlagFor(order,
			fmt.Errorf("%w: %q", domain.ErrUnknownOrderStatus, order.Status)))
		return nil, false
	}
	if !domain.CountsForCommission(status) {
		return nil, false
	}
	res, err := a.engine.ComputeOrderCommission(order, agent, parent)
	if err != nil {
		*flags = append(*flags, commission.FlagFor(order, err))
		return nil, false
	}
	if res.Flag != nil {
		*flags = append(*flags, *res.Flag)
	}
	return res, true
}
