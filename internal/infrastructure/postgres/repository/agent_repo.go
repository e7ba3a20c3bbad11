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

type DefaultAgentRepository struct {
	DB *gorm.DB
}

func NewDefaultAgentRepository(db *gorm.DB) *DefaultAgentRepository {
	return &DefaultAgentRepository{
		DB: db,
	}
}

// GetAgent looks the key up as a code first and as a handle second.
func (r *DefaultAgentRepository) GetAgent(ctx context.Context, codeOrHandle string) (*domain.Agent, error) {
	var model models.AgentModel
	err := r.DB.WithContext(ctx).Where("code = ?", codeOrHandle).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.DB.WithContext(ctx).Where("handle = ?", codeOrHandle).First(&model).Error
	}
	if err != nil {
		return nil, agentErr(err)
	}
	return mappers.ToDomainAgent(&model), nil
}

func (r *DefaultAgentRepository) GetAgentByRegistrationCode(ctx context.Context, registrationCode string) (*domain.Agent, error) {
	var model models.AgentModel
	if err := r.DB.WithContext(ctx).
		Where("registration_code = ?", registrationCode).
		First(&model).Error; err != nil {
		return nil, agentErr(err)
	}
	return mappers.ToDomainAgent(&model), nil
}

func (r *DefaultAgentRepository) ListSubordinates(ctx context.Context, primaryCode string) ([]*domain.Agent, error) {
	var agentModels []models.AgentModel
	if err := r.DB.WithContext(ctx).
		Where("parent_code = ?", primaryCode).
		Order("code").
		Find(&agentModels).Error; err != nil {
		return nil, err
	}

	agents := make([]*domain.Agent, len(agentModels))
	for i := range agentModels {
		agents[i] = mappers.ToDomainAgent(&agentModels[i])
	}
	return agents, nil
}

func (r *DefaultAgentRepository) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	model := mappers.ToGORMAgent(agent)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	agent.CreatedAt = model.CreatedAt
	agent.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultAgentRepository) UpdateAgent(ctx context.Context, agent *domain.Agent) error {
	model := mappers.ToGORMAgent(agent)
	model.UpdatedAt = time.Now()
	result := r.DB.WithContext(ctx).
		Model(&models.AgentModel{}).
		Where("code = ?", agent.Code).
		Select("handle", "tier", "parent_code", "rate", "removed_at", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAgentNotFound, agent.Code)
	}
	agent.UpdatedAt = model.UpdatedAt
	return nil
}

func agentErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrAgentNotFound
	}
	return err
}
