package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/hierarchy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SettlementUsecase interface {
	GetAgentSettlement(ctx context.Context, agentCode string, window domain.Window) (*domain.Settlement, error)
	ComputeOrderCommission(ctx context.Context, input OrderCommissionInput) (*domain.OrderCommission, error)
	ComputeForOrder(ctx context.Context, order *domain.Order) (*domain.OrderCommission, error)
}

type OrderCommissionInput struct {
	OrderID       string
	AgentCode     string
	Amount        decimal.Decimal
	ActualPaid    decimal.Decimal
	PaymentMethod string
}

type Dependencies struct {
	Orders    domain.OrderRepository
	Resolver  *hierarchy.Resolver
	Engine    *commission.Engine
	Reminders domain.ReminderStore
	Publisher domain.EventPublisher
	Metrics   *metrics.CommissionMetrics
	Logger    *zap.Logger
	Location  *time.Location
	Policy    ReminderPolicy
	Now       func() time.Time
}

type DefaultSettlementUsecase struct {
	orders     domain.OrderRepository
	resolver   *hierarchy.Resolver
	engine     *commission.Engine
	aggregator *Aggregator
	reminders  domain.ReminderStore
	publisher  domain.EventPublisher
	metrics    *metrics.CommissionMetrics
	logger     *zap.Logger
	policy     ReminderPolicy
	now        func() time.Time
}

func NewDefaultSettlementUsecase(deps Dependencies) *DefaultSettlementUsecase {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &DefaultSettlementUsecase{
		orders:     deps.Orders,
		resolver:   deps.Resolver,
		engine:     deps.Engine,
		aggregator: NewAggregator(deps.Engine, deps.Location),
		reminders:  deps.Reminders,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		logger:     logger,
		policy:     deps.Policy,
		now:        now,
	}
}

// GetAgentSettlement computes the settlement of one agent. Structural
// problems (missing agent, dangling parent, store failures) abort the whole
// request; problems with single orders only exclude those orders and are
// reported in Flags.
func (uc *DefaultSettlementUsecase) GetAgentSettlement(ctx context.Context, agentCode string, window domain.Window) (*domain.Settlement, error) {
	started := uc.now()
	batch := uc.resolver.Batch()

	res, err := batch.Resolve(ctx, agentCode)
	if err != nil {
		uc.abort(agentCode, err)
		return nil, err
	}

	in := AggregateInput{Agent: res.Agent, Parent: res.Parent}
	in.OwnOrders, err = uc.listOrders(ctx, res.Agent.Code)
	if err != nil {
		uc.abort(agentCode, err)
		return nil, err
	}
	for _, sub := range res.Subordinates {
		orders, err := uc.listOrders(ctx, sub.Code)
		if err != nil {
			uc.abort(agentCode, err)
			return nil, err
		}
		in.Subordinates = append(in.Subordinates, SubordinateOrders{Agent: sub, Orders: orders})
	}

	stats := uc.aggregator.AggregateForAgent(in, window, started)

	periods := make(map[domain.Window]domain.AgentStats, len(domain.StandardWindows))
	var lifetime domain.AgentStats
	for _, w := range domain.StandardWindows {
		s := stats
		if w != window {
			s = uc.aggregator.AggregateForAgent(in, w, started)
		}
		if w == domain.WindowLifetime {
			lifetime = s
		}
		periods[w] = s
	}

	flags := append([]domain.Flag{}, res.Flags...)
	flags = append(flags, lifetime.Flags...)

	settlement := &domain.Settlement{
		Agent:                  res.Agent,
		Window:                 window,
		Own:                    stats,
		Subordinates:           stats.Subordinates,
		BlendedRate:            stats.BlendedRate,
		AverageSubordinateRate: stats.AverageSubordinateRate,
		Periods:                summarize(periods),
		Reminders:              uc.followUps(ctx, in.OwnOrders, started),
		Flags:                  flags,
	}

	uc.logFlags(res.Agent.Code, flags)
	uc.metrics.RecordSettlement(string(res.Agent.Tier), string(window), uc.now().Sub(started).Seconds(), countFlags(flags))
	uc.publish(ctx, settlement, started)

	return settlement, nil
}

// ComputeOrderCommission prices an order that is not necessarily stored yet.
// The result carries the same flag a settlement would report for the order.
func (uc *DefaultSettlementUsecase) ComputeOrderCommission(ctx context.Context, input OrderCommissionInput) (*domain.OrderCommission, error) {
	return uc.ComputeForOrder(ctx, &domain.Order{
		ID:            input.OrderID,
		AgentCode:     input.AgentCode,
		Amount:        input.Amount,
		ActualPaid:    input.ActualPaid,
		PaymentMethod: input.PaymentMethod,
	})
}

func (uc *DefaultSettlementUsecase) ComputeForOrder(ctx context.Context, order *domain.Order) (*domain.OrderCommission, error) {
	batch := uc.resolver.Batch()
	res, err := batch.Resolve(ctx, order.AgentCode)
	if err != nil {
		return nil, err
	}
	result, err := uc.engine.ComputeOrderCommission(order, res.Agent, res.Parent)
	if err != nil {
		return nil, err
	}
	// An override that cannot be routed to a primary is reported on the
	// order itself unless the engine already flagged it.
	if result.Flag == nil && len(res.Flags) > 0 {
		flag := res.Flags[0]
		flag.OrderID = order.ID
		flag.OrderNumber = order.OrderNumber
		result.Flag = &flag
	}
	return result, nil
}

func (uc *DefaultSettlementUsecase) listOrders(ctx context.Context, agentCode string) ([]*domain.Order, error) {
	orders, err := uc.orders.ListOrdersForAgent(ctx, agentCode, nil)
	if err != nil {
		return nil, domain.NewUpstreamError("list orders for "+agentCode, err)
	}
	return orders, nil
}

func (uc *DefaultSettlementUsecase) followUps(ctx context.Context, orders []*domain.Order, now time.Time) []domain.ReminderOrder {
	if uc.reminders != nil && len(orders) > 0 {
		ids := make([]string, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}
		marks, err := uc.reminders.Reminded(ctx, ids)
		if err != nil {
			uc.logger.Warn("failed to read reminder marks, using stored flags", zap.Error(err))
		}
		for _, o := range orders {
			if marks[o.ID] {
				o.IsReminded = true
			}
		}
	}
	return OrdersNeedingFollowUp(orders, now, uc.policy)
}

func (uc *DefaultSettlementUsecase) abort(agentCode string, err error) {
	reason := "upstream"
	switch {
	case errors.Is(err, domain.ErrAgentNotFound):
		reason = "agent_not_found"
	case errors.Is(err, domain.ErrDanglingParentReference):
		reason = "dangling_parent"
	}
	uc.metrics.RecordAbort(reason)
	uc.logger.Error("settlement aborted",
		zap.String("agent_code", agentCode),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

func (uc *DefaultSettlementUsecase) logFlags(agentCode string, flags []domain.Flag) {
	for _, f := range flags {
		uc.logger.Warn("order flagged in settlement",
			zap.String("agent_code", agentCode),
			zap.String("order_id", f.OrderID),
			zap.String("reason", string(f.Reason)),
			zap.String("detail", f.Detail),
		)
	}
}

func (uc *DefaultSettlementUsecase) publish(ctx context.Context, s *domain.Settlement, at time.Time) {
	if uc.publisher == nil {
		return
	}
	event := domain.SettlementComputedEvent{
		EventID:          uuid.NewString(),
		AgentCode:        s.Agent.Code,
		Tier:             s.Agent.Tier,
		Window:           s.Window,
		QualifyingAmount: s.Own.QualifyingAmount().String(),
		TotalCommission:  s.Own.TotalCommission.String(),
		BlendedRate:      s.BlendedRate.String(),
		FlagCount:        len(s.Flags),
		ComputedAt:       at,
	}
	if err := uc.publisher.PublishSettlement(ctx, event); err != nil {
		uc.logger.Error("failed to publish settlement event", zap.String("agent_code", s.Agent.Code), zap.Error(err))
		return
	}
	uc.logger.Debug("settlement event published", zap.String("event_id", event.EventID))
}

func summarize(periods map[domain.Window]domain.AgentStats) map[domain.Window]domain.PeriodSummary {
	out := make(map[domain.Window]domain.PeriodSummary, len(periods))
	for w, stats := range periods {
		count := stats.OrderCount
		for _, sub := range stats.Subordinates {
			count += sub.OrderCount
		}
		out[w] = domain.PeriodSummary{
			OrderCount:      count,
			Amount:          stats.QualifyingAmount(),
			TotalCommission: stats.TotalCommission,
		}
	}
	return out
}

func countFlags(flags []domain.Flag) map[string]int {
	out := make(map[string]int)
	for _, f := range flags {
		out[string(f.Reason)]++
	}
	return out
}
