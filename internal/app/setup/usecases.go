package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-commission-service/internal/usecase"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/hierarchy"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
)

type UseCases struct {
	AgentUsecase      usecase.AgentUsecase
	OrderUsecase      usecase.OrderUsecase
	SettlementUsecase settlement.SettlementUsecase
	Currency          *commission.CurrencyNormalizer
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	settlementCfg := deps.Config.Settlement

	currency, err := commission.NewCurrencyNormalizer(settlementCfg)
	if err != nil {
		return nil, fmt.Errorf("currency normalizer: %w", err)
	}
	policy := settlement.ReminderPolicy{
		Days:      settlementCfg.ReminderDays,
		TrialDays: settlementCfg.TrialReminderDays,
	}

	settlementUsecase := settlement.NewDefaultSettlementUsecase(settlement.Dependencies{
		Orders:    deps.Repositories.OrderRepo,
		Resolver:  hierarchy.NewResolver(deps.Repositories.AgentRepo),
		Engine:    commission.NewEngine(currency),
		Reminders: deps.Reminders,
		Publisher: deps.Publisher,
		Metrics:   deps.Metrics,
		Logger:    deps.Logger.Named("settlement"),
		Location:  settlementCfg.Location(),
		Policy:    policy,
	})

	agentUsecase, err := usecase.NewDefaultAgentUsecase(
		deps.Repositories.AgentRepo,
		settlementCfg,
		deps.Logger.Named("agents"),
	)
	if err != nil {
		return nil, fmt.Errorf("agent defaults: %w", err)
	}

	orderUsecase := usecase.NewDefaultOrderUsecase(
		deps.Repositories.OrderRepo,
		deps.Repositories.AgentRepo,
		settlementUsecase,
		deps.Reminders,
		deps.Publisher,
		deps.Metrics,
		deps.Logger.Named("orders"),
		policy,
	)

	return &UseCases{
		AgentUsecase:      agentUsecase,
		OrderUsecase:      orderUsecase,
		SettlementUsecase: settlementUsecase,
		Currency:          currency,
	}, nil
}
