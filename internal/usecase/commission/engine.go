package commission

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/shopspring/decimal"
)

const rateScale = 8

// Engine computes the commission split of a single order. It is pure: the
// same order and agents always give the same result, and the order is never
// modified.
type Engine struct {
	currency *CurrencyNormalizer
}

func NewEngine(currency *CurrencyNormalizer) *Engine {
	return &Engine{currency: currency}
}

func (e *Engine) Currency() *CurrencyNormalizer {
	return e.currency
}

// SettlementAmount is the paid amount of the order in the settlement currency.
func (e *Engine) SettlementAmount(order *domain.Order) (decimal.Decimal, error) {
	return e.currency.ToSettlementCurrency(order.PaidAmount(), order.PaymentMethod)
}

// ComputeOrderCommission splits the order between the attributed agent and,
// for a linked secondary, its primary. parent may be nil.
func (e *Engine) ComputeOrderCommission(order *domain.Order, agent, parent *domain.Agent) (*domain.OrderCommission, error) {
	amount, err := e.SettlementAmount(order)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", order.ID, err)
	}
	if err := domain.ValidateFraction(agent.Rate); err != nil {
		return nil, fmt.Errorf("agent %s: %w", agent.Code, err)
	}

	result := &domain.OrderCommission{
		OrderID:            order.ID,
		AgentCode:          agent.Code,
		Tier:               agent.Tier,
		SettlementAmount:   amount,
		DirectCommission:   amount.Mul(agent.Rate),
		OverrideCommission: decimal.Zero,
	}

	if agent.Tier == domain.TierSecondaryLinked && parent != nil {
		if err := domain.ValidateFraction(parent.Rate); err != nil {
			return nil, fmt.Errorf("parent %s: %w", parent.Code, err)
		}
		result.ParentCode = parent.Code
		gap := parent.Rate.Sub(agent.Rate)
		if gap.IsNegative() {
			result.Flag = &domain.Flag{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				AgentCode:   agent.Code,
				Reason:      domain.FlagRateInversion,
				Detail: fmt.Sprintf("parent %s rate %s below secondary rate %s, override clamped to 0",
					parent.Code, parent.Rate, agent.Rate),
			}
		} else {
			result.OverrideCommission = amount.Mul(gap)
		}
	}

	if amount.IsZero() {
		result.EffectiveRate = agent.Rate
	} else {
		result.EffectiveRate = result.Total().DivRound(amount, rateScale)
	}
	return result, nil
}

// FlagFor turns a per-order computation error into a settlement flag.
func FlagFor(order *domain.Order, err error) domain.Flag {
	reason := domain.FlagInvalidAmount
	switch {
	case errors.Is(err, domain.ErrInvalidRate):
		reason = domain.FlagInvalidRate
	case errors.Is(err, domain.ErrUnknownOrderStatus):
		reason = domain.FlagUnknownStatus
	}
	return domain.Flag{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		AgentCode:   order.AgentCode,
		Reason:      reason,
		Detail:      err.Error(),
	}
}
