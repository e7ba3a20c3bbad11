package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
	orderdto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/order"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	ConfirmPayment(ctx context.Context, input *orderdto.ConfirmPaymentInput) (*domain.Order, error)
	ConfirmConfig(ctx context.Context, input *orderdto.ConfirmConfigInput) (*domain.Order, error)
	RejectOrder(ctx context.Context, orderID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*domain.Order, error)

	ExpireDue(ctx context.Context) (int, error)
	MarkReminded(ctx context.Context, orderID string) (*domain.Order, error)
	ScanReminders(ctx context.Context) (int, error)
}

// CommissionCalculator prices an order against the current hierarchy.
type CommissionCalculator interface {
	ComputeForOrder(ctx context.Context, order *domain.Order) (*domain.OrderCommission, error)
}

type DefaultOrderUsecase struct {
	OrderRepo  domain.OrderRepository
	AgentRepo  domain.AgentRepository
	Calculator CommissionCalculator
	Reminders  domain.ReminderStore
	Publisher  domain.EventPublisher
	Metrics    *metrics.CommissionMetrics
	Logger     *zap.Logger
	Policy     settlement.ReminderPolicy
	Now        func() time.Time
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	agentRepo domain.AgentRepository,
	calculator CommissionCalculator,
	reminders domain.ReminderStore,
	publisher domain.EventPublisher,
	orderMetrics *metrics.CommissionMetrics,
	logger *zap.Logger,
	policy settlement.ReminderPolicy) *DefaultOrderUsecase {

	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultOrderUsecase{
		OrderRepo:  orderRepo,
		AgentRepo:  agentRepo,
		Calculator: calculator,
		Reminders:  reminders,
		Publisher:  publisher,
		Metrics:    orderMetrics,
		Logger:     logger,
		Policy:     policy,
		Now:        time.Now,
	}
}

func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error) {
	if input.Amount.IsNegative() || input.ActualPaid.IsNegative() {
		return nil, fmt.Errorf("%w: amounts must not be negative", domain.ErrInvalidAmount)
	}
	duration, err := domain.ParseDuration(input.Duration)
	if err != nil {
		return nil, err
	}
	agent, err := uc.AgentRepo.GetAgent(ctx, input.AgentCode)
	if err != nil {
		return nil, err
	}
	if agent.IsRemoved() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAgentRemoved, agent.Code)
	}

	orderNumber := strings.TrimSpace(input.OrderNumber)
	if orderNumber == "" {
		if orderNumber, err = generateCode(12); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   orderNumber,
		AgentCode:     agent.Code,
		Amount:        input.Amount,
		ActualPaid:    input.ActualPaid,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Duration:      duration.Code,
		Status:        string(domain.StatusPendingPayment),
		CreatedAt:     uc.Now(),
	}
	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	uc.Logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("agent_code", order.AgentCode),
	)
	uc.statusChanged(ctx, order)
	return order, nil
}

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}

// statusChanged records the transition and publishes it. Publishing is best
// effort: the stored state is the source of truth.
func (uc *DefaultOrderUsecase) statusChanged(ctx context.Context, order *domain.Order) {
	uc.Metrics.RecordTransition(string(order.Canonical()))

	event := domain.OrderStatusEvent{
		EventID:     uuid.NewString(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		AgentCode:   order.AgentCode,
		Status:      order.Status,
		OccurredAt:  uc.Now(),
	}
	if order.Canonical() == domain.StatusConfirmedPayment {
		event.CommissionAmount = order.CommissionAmount.String()
		event.PrimaryOverride = order.PrimaryOverride.String()
	}
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishOrderStatus(ctx, event); err != nil {
		uc.Logger.Error("failed to publish order status event",
			zap.String("order_id", order.ID),
			zap.String("status", order.Status),
			zap.Error(err),
		)
	}
}
