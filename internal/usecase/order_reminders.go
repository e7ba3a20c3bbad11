package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MarkReminded records that the agent was told about the upcoming expiry.
// The mark lives until one day after expiry.
func (uc *DefaultOrderUsecase) MarkReminded(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ttl := 24 * time.Hour
	if order.ExpiryTime != nil {
		if untilExpiry := order.ExpiryTime.Sub(uc.Now()); untilExpiry > 0 {
			ttl += untilExpiry
		}
	}
	if uc.Reminders != nil {
		if err := uc.Reminders.MarkReminded(ctx, order.ID, ttl); err != nil {
			return nil, fmt.Errorf("failed to store reminder mark: %w", err)
		}
	}

	order.IsReminded = true
	if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	uc.Logger.Info("order marked as reminded", zap.String("order_id", order.ID))
	return order, nil
}

// ScanReminders publishes a reminder_due event for every order inside its
// reminder threshold that nobody has been reminded about yet.
func (uc *DefaultOrderUsecase) ScanReminders(ctx context.Context) (int, error) {
	now := uc.Now()
	horizonDays := max(uc.Policy.Days, uc.Policy.TrialDays)
	candidates, err := uc.OrderRepo.FindExpiringBefore(ctx, now.AddDate(0, 0, horizonDays+1))
	if err != nil {
		return 0, fmt.Errorf("failed to find expiring orders: %w", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	if uc.Reminders != nil {
		ids := make([]string, len(candidates))
		for i, o := range candidates {
			ids[i] = o.ID
		}
		marks, err := uc.Reminders.Reminded(ctx, ids)
		if err != nil {
			uc.Logger.Warn("failed to read reminder marks, using stored flags", zap.Error(err))
		}
		for _, o := range candidates {
			if marks[o.ID] {
				o.IsReminded = true
			}
		}
	}

	published := 0
	for _, r := range settlement.OrdersNeedingFollowUp(candidates, now, uc.Policy) {
		if r.IsReminded || r.DaysUntilExpiry < 0 {
			continue
		}
		event := domain.ReminderDueEvent{
			EventID:         uuid.NewString(),
			OrderID:         r.Order.ID,
			OrderNumber:     r.Order.OrderNumber,
			AgentCode:       r.Order.AgentCode,
			DaysUntilExpiry: r.DaysUntilExpiry,
			ExpiryTime:      *r.Order.ExpiryTime,
		}
		if uc.Publisher != nil {
			if err := uc.Publisher.PublishReminderDue(ctx, event); err != nil {
				uc.Logger.Error("failed to publish reminder event", zap.String("order_id", r.Order.ID), zap.Error(err))
				continue
			}
		}
		uc.Metrics.RecordReminderDue()
		published++
	}
	return published, nil
}
