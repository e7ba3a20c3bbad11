package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AgentTier string

const (
	TierPrimary              AgentTier = "primary"
	TierSecondaryLinked      AgentTier = "secondary-linked"
	TierSecondaryIndependent AgentTier = "secondary-independent"
)

func (t AgentTier) Valid() bool {
	switch t {
	case TierPrimary, TierSecondaryLinked, TierSecondaryIndependent:
		return true
	}
	return false
}

func (t AgentTier) IsSecondary() bool {
	return t == TierSecondaryLinked || t == TierSecondaryIndependent
}

type Agent struct {
	ID               string
	Code             string
	Handle           string
	Tier             AgentTier
	ParentCode       string
	RegistrationCode string
	Rate             decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
	RemovedAt        *time.Time
}

func (a *Agent) IsRemoved() bool {
	return a.RemovedAt != nil
}

// AgentRepository is the external agent store. GetAgent accepts either the
// agent code or its handle.
type AgentRepository interface {
	GetAgent(ctx context.Context, codeOrHandle string) (*Agent, error)
	GetAgentByRegistrationCode(ctx context.Context, registrationCode string) (*Agent, error)
	ListSubordinates(ctx context.Context, primaryCode string) ([]*Agent, error)
	CreateAgent(ctx context.Context, agent *Agent) error
	UpdateAgent(ctx context.Context, agent *Agent) error
}
