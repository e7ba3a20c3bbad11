package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{
		DB: db,
	}
}

func (r *DefaultOrderRepository) ListOrdersForAgent(ctx context.Context, agentCode string, dateRange *domain.DateRange) ([]*domain.Order, error) {
	query := r.DB.WithContext(ctx).Where("agent_code = ?", agentCode)
	// Orders fall in a range by payment time, else effective time.
	if dateRange != nil {
		query = query.Where("COALESCE(payment_time, effective_time) >= ? AND COALESCE(payment_time, effective_time) < ?",
			dateRange.From, dateRange.To)
	}
	var orderModels []models.OrderModel
	if err := query.Order("created_at").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var model models.OrderModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&model), nil
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	model := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	model := mappers.ToGORMOrder(order)
	model.UpdatedAt = time.Now()
	result := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", order.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, order.ID)
	}
	order.UpdatedAt = model.UpdatedAt
	return nil
}

// FindExpiredActive filters the status in Go because stored statuses are
// free-form and only the classifier knows every spelling of "active".
func (r *DefaultOrderRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	orders, err := r.findWithExpiryBefore(ctx, now, true)
	if err != nil {
		return nil, err
	}
	var out []*domain.Order
	for _, o := range orders {
		if o.Canonical() == domain.StatusActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *DefaultOrderRepository) FindExpiringBefore(ctx context.Context, before time.Time) ([]*domain.Order, error) {
	orders, err := r.findWithExpiryBefore(ctx, before, false)
	if err != nil {
		return nil, err
	}
	var out []*domain.Order
	for _, o := range orders {
		if domain.CountsAsActive(o.Canonical()) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *DefaultOrderRepository) findWithExpiryBefore(ctx context.Context, t time.Time, inclusive bool) ([]*domain.Order, error) {
	cond := "expiry_time IS NOT NULL AND expiry_time < ?"
	if inclusive {
		cond = "expiry_time IS NOT NULL AND expiry_time <= ?"
	}
	var orderModels []models.OrderModel
	if err := r.DB.WithContext(ctx).
		Where(cond, t).
		Where("status NOT IN ?", []string{string(domain.StatusRejected), string(domain.StatusCancelled), string(domain.StatusExpired)}).
		Order("expiry_time").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

func toDomainOrders(orderModels []models.OrderModel) []*domain.Order {
	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders
}
