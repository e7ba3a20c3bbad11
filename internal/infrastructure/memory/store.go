// Package memory keeps agents and orders in process memory. It backs local
// runs without a database and the use-case tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	agents map[string]*domain.Agent
	orders map[string]*domain.Order

	// FailWith makes every read return this error.
	FailWith error
	reads    int
}

func NewStore() *Store {
	return &Store{
		agents: make(map[string]*domain.Agent),
		orders: make(map[string]*domain.Order),
	}
}

// Reads reports how many repository reads were served.
func (s *Store) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

func (s *Store) read() error {
	s.reads++
	return s.FailWith
}

func (s *Store) GetAgent(ctx context.Context, codeOrHandle string) (*domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	if a, ok := s.agents[codeOrHandle]; ok {
		c := *a
		return &c, nil
	}
	for _, a := range s.agents {
		if a.Handle == codeOrHandle {
			c := *a
			return &c, nil
		}
	}
	return nil, domain.ErrAgentNotFound
}

func (s *Store) GetAgentByRegistrationCode(ctx context.Context, registrationCode string) (*domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	for _, a := range s.agents {
		if a.RegistrationCode != "" && a.RegistrationCode == registrationCode {
			c := *a
			return &c, nil
		}
	}
	return nil, domain.ErrAgentNotFound
}

func (s *Store) ListSubordinates(ctx context.Context, primaryCode string) ([]*domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	var subs []*domain.Agent
	for _, a := range s.agents {
		if a.ParentCode == primaryCode {
			c := *a
			subs = append(subs, &c)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Code < subs[j].Code })
	return subs, nil
}

func (s *Store) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = now
	}
	agent.UpdatedAt = now
	c := *agent
	s.agents[agent.Code] = &c
	return nil
}

func (s *Store) UpdateAgent(ctx context.Context, agent *domain.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[agent.Code]; !ok {
		return domain.ErrAgentNotFound
	}
	agent.UpdatedAt = time.Now()
	c := *agent
	s.agents[agent.Code] = &c
	return nil
}

func (s *Store) ListOrdersForAgent(ctx context.Context, agentCode string, dateRange *domain.DateRange) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	var orders []*domain.Order
	for _, o := range s.orders {
		if o.AgentCode != agentCode {
			continue
		}
		if dateRange != nil {
			at := o.SettledAt()
			if at == nil || !dateRange.Contains(*at) {
				continue
			}
		}
		c := *o
		orders = append(orders, &c)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}

func (s *Store) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	c := *order
	s.orders[order.ID] = &c
	return nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	order.UpdatedAt = time.Now()
	c := *order
	s.orders[order.ID] = &c
	return nil
}

func (s *Store) FindExpiredActive(ctx context.Context, now time.Time) ([]*domain.Order, error) {
	return s.filterOrders(func(o *domain.Order) bool {
		return o.Canonical() == domain.StatusActive && o.ExpiryTime != nil && !o.ExpiryTime.After(now)
	})
}

func (s *Store) FindExpiringBefore(ctx context.Context, before time.Time) ([]*domain.Order, error) {
	return s.filterOrders(func(o *domain.Order) bool {
		return domain.CountsAsActive(o.Canonical()) && o.ExpiryTime != nil && o.ExpiryTime.Before(before)
	})
}

func (s *Store) filterOrders(keep func(*domain.Order) bool) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	var out []*domain.Order
	for _, o := range s.orders {
		if keep(o) {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
