package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type Resolution struct {
	Agent        *domain.Agent
	Parent       *domain.Agent
	Subordinates []*domain.Agent
	Flags        []domain.Flag
}

func (r *Resolution) Tier() domain.AgentTier {
	return r.Agent.Tier
}

func (r *Resolution) SubordinateCodes() []string {
	codes := make([]string, len(r.Subordinates))
	for i, s := range r.Subordinates {
		codes[i] = s.Code
	}
	return codes
}

// Resolver works out an agent's place in the two-level hierarchy. A plain
// Resolver reads through to the repository on every call; Batch returns a
// request-scoped one that remembers what it has already read.
type Resolver struct {
	agents       domain.AgentRepository
	agentCache   map[string]*domain.Agent
	subordinates map[string][]*domain.Agent
}

func NewResolver(agents domain.AgentRepository) *Resolver {
	return &Resolver{agents: agents}
}

func (r *Resolver) Batch() *Resolver {
	return &Resolver{
		agents:       r.agents,
		agentCache:   make(map[string]*domain.Agent),
		subordinates: make(map[string][]*domain.Agent),
	}
}

func (r *Resolver) Resolve(ctx context.Context, codeOrHandle string) (*Resolution, error) {
	agent, err := r.agent(ctx, codeOrHandle)
	if err != nil {
		return nil, err
	}
	res := &Resolution{Agent: agent}

	switch agent.Tier {
	case domain.TierPrimary:
		subs, err := r.listSubordinates(ctx, agent.Code)
		if err != nil {
			return nil, err
		}
		res.Subordinates = subs
	case domain.TierSecondaryLinked:
		if agent.ParentCode == "" {
			res.Flags = append(res.Flags, domain.Flag{
				AgentCode: agent.Code,
				Reason:    domain.FlagMissingParentLink,
				Detail:    "linked secondary has no parent reference, override cannot be routed",
			})
			break
		}
		parent, err := r.Parent(ctx, agent)
		if err != nil {
			return nil, err
		}
		res.Parent = parent
	case domain.TierSecondaryIndependent:
	default:
		return nil, fmt.Errorf("agent %s has unknown tier %q", agent.Code, agent.Tier)
	}
	return res, nil
}

// Parent loads the primary a linked secondary points at. A reference to a
// missing agent, or to an agent that is not a primary, is a dangling
// reference.
func (r *Resolver) Parent(ctx context.Context, agent *domain.Agent) (*domain.Agent, error) {
	if agent.Tier != domain.TierSecondaryLinked || agent.ParentCode == "" {
		return nil, nil
	}
	parent, err := r.agent(ctx, agent.ParentCode)
	if errors.Is(err, domain.ErrAgentNotFound) {
		return nil, fmt.Errorf("%w: %s references missing parent %s",
			domain.ErrDanglingParentReference, agent.Code, agent.ParentCode)
	}
	if err != nil {
		return nil, err
	}
	if parent.Tier != domain.TierPrimary {
		return nil, fmt.Errorf("%w: %s references %s which is %s, not primary",
			domain.ErrDanglingParentReference, agent.Code, parent.Code, parent.Tier)
	}
	return parent, nil
}

func (r *Resolver) agent(ctx context.Context, key string) (*domain.Agent, error) {
	if a, ok := r.agentCache[key]; ok {
		return a, nil
	}
	a, err := r.agents.GetAgent(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrAgentNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAgentNotFound, key)
		}
		return nil, domain.NewUpstreamError("get agent "+key, err)
	}
	if r.agentCache != nil {
		r.agentCache[key] = a
		r.agentCache[a.Code] = a
	}
	return a, nil
}

func (r *Resolver) listSubordinates(ctx context.Context, primaryCode string) ([]*domain.Agent, error) {
	if subs, ok := r.subordinates[primaryCode]; ok {
		return subs, nil
	}
	subs, err := r.agents.ListSubordinates(ctx, primaryCode)
	if err != nil {
		return nil, domain.NewUpstreamError("list subordinates of "+primaryCode, err)
	}
	if r.subordinates != nil {
		r.subordinates[primaryCode] = subs
		for _, s := range subs {
			r.agentCache[s.Code] = s
		}
	}
	return subs, nil
}
