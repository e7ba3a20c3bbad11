package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/order"
	"go.uber.org/zap"
)

// ConfirmPayment moves a pending order to confirmed_payment and persists the
// commission split computed against the hierarchy as it is right now.
func (uc *DefaultOrderUsecase) ConfirmPayment(ctx context.Context, input *orderdto.ConfirmPaymentInput) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order, domain.StatusConfirmedPayment, domain.StatusPendingPayment); err != nil {
		return nil, err
	}
	if input.ActualPaid != nil {
		if input.ActualPaid.IsNegative() {
			return nil, fmt.Errorf("%w: actual paid %s is negative", domain.ErrInvalidAmount, input.ActualPaid)
		}
		order.ActualPaid = *input.ActualPaid
	}

	paidAt := uc.at(input.PaidAt)
	order.PaymentTime = &paidAt
	order.Status = string(domain.StatusConfirmedPayment)

	split, err := uc.Calculator.ComputeForOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to compute commission for order %s: %w", order.ID, err)
	}
	order.CommissionAmount = split.Total()
	order.PrimaryOverride = split.OverrideCommission
	if split.Tier.IsSecondary() {
		order.SecondaryCommission = split.DirectCommission
	}
	if split.Flag != nil {
		uc.Logger.Warn("order confirmed with flag",
			zap.String("order_id", order.ID),
			zap.String("reason", string(split.Flag.Reason)),
			zap.String("detail", split.Flag.Detail),
		)
	}

	if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	uc.Metrics.RecordCommission(split.DirectCommission, split.OverrideCommission)
	uc.Logger.Info("order payment confirmed",
		zap.String("order_id", order.ID),
		zap.String("commission", order.CommissionAmount.String()),
		zap.String("primary_override", order.PrimaryOverride.String()),
	)
	uc.statusChanged(ctx, order)
	return order, nil
}

// ConfirmConfig activates an order and starts its subscription period.
func (uc *DefaultOrderUsecase) ConfirmConfig(ctx context.Context, input *orderdto.ConfirmConfigInput) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order, domain.StatusActive, domain.StatusConfirmedPayment, domain.StatusPendingConfig); err != nil {
		return nil, err
	}

	effective := uc.at(input.EffectiveAt)
	expiry, err := domain.ExpiryFor(&effective, order.Duration)
	if err != nil {
		return nil, err
	}
	order.EffectiveTime = &effective
	order.ExpiryTime = expiry
	order.Status = string(domain.StatusActive)

	if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	uc.Logger.Info("order activated",
		zap.String("order_id", order.ID),
		zap.Time("expiry_time", *expiry),
	)
	uc.statusChanged(ctx, order)
	return order, nil
}

func (uc *DefaultOrderUsecase) RejectOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.close(ctx, orderID, domain.StatusRejected)
}

func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.close(ctx, orderID, domain.StatusCancelled)
}

func (uc *DefaultOrderUsecase) close(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order, to,
		domain.StatusPendingPayment, domain.StatusConfirmedPayment, domain.StatusPendingConfig, domain.StatusActive); err != nil {
		return nil, err
	}
	order.Status = string(to)
	if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	uc.Logger.Info("order closed", zap.String("order_id", order.ID), zap.String("status", order.Status))
	uc.statusChanged(ctx, order)
	return order, nil
}

// ExpireDue moves every active order whose expiry has passed to expired. It
// keeps going past single failures and reports how many orders moved.
func (uc *DefaultOrderUsecase) ExpireDue(ctx context.Context) (int, error) {
	now := uc.Now()
	due, err := uc.OrderRepo.FindExpiredActive(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired orders: %w", err)
	}

	expired := 0
	for _, order := range due {
		order.Status = string(domain.StatusExpired)
		if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
			uc.Logger.Error("failed to expire order", zap.String("order_id", order.ID), zap.Error(err))
			continue
		}
		expired++
		uc.statusChanged(ctx, order)
	}
	uc.Metrics.RecordExpired(expired)
	if expired > 0 {
		uc.Logger.Info("orders expired", zap.Int("count", expired))
	}
	return expired, nil
}

func (uc *DefaultOrderUsecase) at(t *time.Time) time.Time {
	if t != nil && !t.IsZero() {
		return *t
	}
	return uc.Now()
}

func checkTransition(order *domain.Order, to domain.OrderStatus, from ...domain.OrderStatus) error {
	current := order.Canonical()
	for _, f := range from {
		if current == f {
			return nil
		}
	}
	return fmt.Errorf("%w: order %s from %q to %s", domain.ErrInvalidTransition, order.ID, order.Status, to)
}
