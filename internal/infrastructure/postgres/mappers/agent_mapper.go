package mappers

import (
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

func ToDomainAgent(model *models.AgentModel) *domain.Agent {
	return &domain.Agent{
		ID:               model.ID,
		Code:             model.Code,
		Handle:           model.Handle,
		Tier:             domain.AgentTier(model.Tier),
		ParentCode:       model.ParentCode,
		RegistrationCode: model.RegistrationCode,
		Rate:             model.Rate,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
		RemovedAt:        model.RemovedAt,
	}
}

func ToGORMAgent(agent *domain.Agent) *models.AgentModel {
	return &models.AgentModel{
		ID:               agent.ID,
		Code:             agent.Code,
		Handle:           agent.Handle,
		Tier:             string(agent.Tier),
		ParentCode:       agent.ParentCode,
		RegistrationCode: agent.RegistrationCode,
		Rate:             agent.Rate,
		CreatedAt:        agent.CreatedAt,
		UpdatedAt:        agent.UpdatedAt,
		RemovedAt:        agent.RemovedAt,
	}
}
