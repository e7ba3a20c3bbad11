package mappers

import (
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:                  model.ID,
		OrderNumber:         model.OrderNumber,
		AgentCode:           model.AgentCode,
		Amount:              model.Amount,
		ActualPaid:          model.ActualPaid,
		PaymentMethod:       model.PaymentMethod,
		Duration:            model.Duration,
		Status:              model.Status,
		CommissionAmount:    model.CommissionAmount,
		SecondaryCommission: model.SecondaryCommission,
		PrimaryOverride:     model.PrimaryOverride,
		CreatedAt:           model.CreatedAt,
		PaymentTime:         model.PaymentTime,
		EffectiveTime:       model.EffectiveTime,
		ExpiryTime:          model.ExpiryTime,
		IsReminded:          model.IsReminded,
		UpdatedAt:           model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:                  order.ID,
		OrderNumber:         order.OrderNumber,
		AgentCode:           order.AgentCode,
		Amount:              order.Amount,
		ActualPaid:          order.ActualPaid,
		PaymentMethod:       order.PaymentMethod,
		Duration:            order.Duration,
		Status:              order.Status,
		CommissionAmount:    order.CommissionAmount,
		SecondaryCommission: order.SecondaryCommission,
		PrimaryOverride:     order.PrimaryOverride,
		CreatedAt:           order.CreatedAt,
		PaymentTime:         order.PaymentTime,
		EffectiveTime:       order.EffectiveTime,
		ExpiryTime:          order.ExpiryTime,
		IsReminded:          order.IsReminded,
		UpdatedAt:           order.UpdatedAt,
	}
}
