package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	agentdto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/agent"
	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type AgentUsecase interface {
	RegisterPrimary(ctx context.Context, input *agentdto.RegisterPrimaryInput) (*domain.Agent, error)
	RegisterSecondary(ctx context.Context, input *agentdto.RegisterSecondaryInput) (*domain.Agent, error)
	UpdateRate(ctx context.Context, input *agentdto.UpdateRateInput) (*domain.Agent, error)
	LinkToParent(ctx context.Context, input *agentdto.LinkToParentInput) (*domain.Agent, error)
	Remove(ctx context.Context, agentCode string) error
	GetAgent(ctx context.Context, codeOrHandle string) (*domain.Agent, error)
}

type DefaultAgentUsecase struct {
	agentRepo     domain.AgentRepository
	primaryRate   decimal.Decimal
	secondaryRate decimal.Decimal
	logger        *zap.Logger
}

// NewDefaultAgentUsecase normalizes the configured default rates the same
// way request rates are normalized. A default secondary rate above the
// default primary rate is rejected.
func NewDefaultAgentUsecase(agentRepo domain.AgentRepository, defaults config.Settlement, logger *zap.Logger) (*DefaultAgentUsecase, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	primaryRate, err := domain.ToFraction(defaults.PrimaryRate())
	if err != nil {
		return nil, fmt.Errorf("default_primary_rate: %w", err)
	}
	secondaryRate, err := domain.ToFraction(defaults.SecondaryRate())
	if err != nil {
		return nil, fmt.Errorf("default_secondary_rate: %w", err)
	}
	if secondaryRate.GreaterThan(primaryRate) {
		return nil, fmt.Errorf("%w: default secondary rate %s exceeds default primary rate %s",
			domain.ErrInvalidRate, secondaryRate, primaryRate)
	}
	return &DefaultAgentUsecase{
		agentRepo:     agentRepo,
		primaryRate:   primaryRate,
		secondaryRate: secondaryRate,
		logger:        logger,
	}, nil
}

func (uc *DefaultAgentUsecase) RegisterPrimary(ctx context.Context, input *agentdto.RegisterPrimaryInput) (*domain.Agent, error) {
	rate, err := rateOrDefault(input.Rate, uc.primaryRate)
	if err != nil {
		return nil, err
	}
	agentCode, err := generateCode(8)
	if err != nil {
		return nil, err
	}
	registrationCode, err := generateCode(10)
	if err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		ID:               uuid.NewString(),
		Code:             agentCode,
		Handle:           strings.TrimSpace(input.Handle),
		Tier:             domain.TierPrimary,
		RegistrationCode: registrationCode,
		Rate:             rate,
	}
	if err := uc.agentRepo.CreateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to create primary agent: %w", err)
	}
	uc.logger.Info("primary agent registered", zap.String("agent_code", agent.Code), zap.String("rate", rate.String()))
	return agent, nil
}

// RegisterSecondary links the new agent to the primary owning the
// registration code. Without a code the agent is independent; an unknown code
// is rejected.
func (uc *DefaultAgentUsecase) RegisterSecondary(ctx context.Context, input *agentdto.RegisterSecondaryInput) (*domain.Agent, error) {
	rate, err := rateOrDefault(input.Rate, uc.secondaryRate)
	if err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		ID:     uuid.NewString(),
		Handle: strings.TrimSpace(input.Handle),
		Tier:   domain.TierSecondaryIndependent,
		Rate:   rate,
	}

	if code := strings.TrimSpace(input.RegistrationCode); code != "" {
		parent, err := uc.agentRepo.GetAgentByRegistrationCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("registration code %s: %w", code, err)
		}
		if err := checkParent(parent); err != nil {
			return nil, err
		}
		if rate.GreaterThan(parent.Rate) {
			return nil, fmt.Errorf("%w: secondary rate %s above parent rate %s", domain.ErrInvalidRate, rate, parent.Rate)
		}
		agent.Tier = domain.TierSecondaryLinked
		agent.ParentCode = parent.Code
	}

	agent.Code, err = generateCode(8)
	if err != nil {
		return nil, err
	}
	if err := uc.agentRepo.CreateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to create secondary agent: %w", err)
	}
	uc.logger.Info("secondary agent registered",
		zap.String("agent_code", agent.Code),
		zap.String("tier", string(agent.Tier)),
		zap.String("parent_code", agent.ParentCode),
	)
	return agent, nil
}

func (uc *DefaultAgentUsecase) UpdateRate(ctx context.Context, input *agentdto.UpdateRateInput) (*domain.Agent, error) {
	rate, err := domain.ToFraction(input.Rate)
	if err != nil {
		return nil, err
	}
	agent, err := uc.activeAgent(ctx, input.AgentCode)
	if err != nil {
		return nil, err
	}

	switch agent.Tier {
	case domain.TierSecondaryLinked:
		if agent.ParentCode != "" {
			parent, err := uc.agentRepo.GetAgent(ctx, agent.ParentCode)
			if err != nil {
				return nil, fmt.Errorf("parent %s: %w", agent.ParentCode, err)
			}
			if rate.GreaterThan(parent.Rate) {
				return nil, fmt.Errorf("%w: rate %s above parent rate %s", domain.ErrInvalidRate, rate, parent.Rate)
			}
		}
	case domain.TierPrimary:
		subs, err := uc.agentRepo.ListSubordinates(ctx, agent.Code)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if sub.Tier == domain.TierSecondaryLinked && sub.Rate.GreaterThan(rate) {
				return nil, fmt.Errorf("%w: rate %s below subordinate %s rate %s", domain.ErrInvalidRate, rate, sub.Code, sub.Rate)
			}
		}
	}

	old := agent.Rate
	agent.Rate = rate
	if err := uc.agentRepo.UpdateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to update agent rate: %w", err)
	}
	uc.logger.Info("agent rate updated",
		zap.String("agent_code", agent.Code),
		zap.String("old_rate", old.String()),
		zap.String("new_rate", rate.String()),
	)
	return agent, nil
}

// LinkToParent attaches a secondary to a primary after the fact. Orders follow
// automatically since attribution is resolved at settlement time.
func (uc *DefaultAgentUsecase) LinkToParent(ctx context.Context, input *agentdto.LinkToParentInput) (*domain.Agent, error) {
	agent, err := uc.activeAgent(ctx, input.AgentCode)
	if err != nil {
		return nil, err
	}
	if !agent.Tier.IsSecondary() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrInvalidTransition, agent.Code, agent.Tier)
	}
	parent, err := uc.agentRepo.GetAgent(ctx, input.ParentCode)
	if err != nil {
		return nil, fmt.Errorf("parent %s: %w", input.ParentCode, err)
	}
	if err := checkParent(parent); err != nil {
		return nil, err
	}
	if agent.Rate.GreaterThan(parent.Rate) {
		return nil, fmt.Errorf("%w: rate %s above parent rate %s", domain.ErrInvalidRate, agent.Rate, parent.Rate)
	}

	agent.Tier = domain.TierSecondaryLinked
	agent.ParentCode = parent.Code
	if err := uc.agentRepo.UpdateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to link agent: %w", err)
	}
	uc.logger.Info("agent linked to parent", zap.String("agent_code", agent.Code), zap.String("parent_code", parent.Code))
	return agent, nil
}

// Remove is a soft delete: the agent keeps resolving for historical orders.
func (uc *DefaultAgentUsecase) Remove(ctx context.Context, agentCode string) error {
	agent, err := uc.agentRepo.GetAgent(ctx, agentCode)
	if err != nil {
		return err
	}
	if agent.IsRemoved() {
		return nil
	}
	now := time.Now()
	agent.RemovedAt = &now
	if err := uc.agentRepo.UpdateAgent(ctx, agent); err != nil {
		return fmt.Errorf("failed to remove agent: %w", err)
	}
	uc.logger.Info("agent removed", zap.String("agent_code", agent.Code))
	return nil
}

func (uc *DefaultAgentUsecase) GetAgent(ctx context.Context, codeOrHandle string) (*domain.Agent, error) {
	return uc.agentRepo.GetAgent(ctx, codeOrHandle)
}

func (uc *DefaultAgentUsecase) activeAgent(ctx context.Context, code string) (*domain.Agent, error) {
	agent, err := uc.agentRepo.GetAgent(ctx, code)
	if err != nil {
		return nil, err
	}
	if agent.IsRemoved() {
		return nil, fmt.Errorf("%w: %s", domain.ErrAgentRemoved, agent.Code)
	}
	return agent, nil
}

func checkParent(parent *domain.Agent) error {
	if parent.Tier != domain.TierPrimary {
		return fmt.Errorf("%w: %s is not a primary agent", domain.ErrInvalidTransition, parent.Code)
	}
	if parent.IsRemoved() {
		return fmt.Errorf("%w: %s", domain.ErrAgentRemoved, parent.Code)
	}
	return nil
}

func rateOrDefault(rate *decimal.Decimal, fallback decimal.Decimal) (decimal.Decimal, error) {
	if rate == nil {
		return fallback, nil
	}
	return domain.ToFraction(*rate)
}

func generateCode(length int) (string, error) {
	gen, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		return "", fmt.Errorf("failed to build code generator: %w", err)
	}
	return gen(), nil
}
