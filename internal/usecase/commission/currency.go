package commission

import (
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/shopspring/decimal"
)

// CurrencyNormalizer converts payments made through the alternate-currency
// channel into the settlement currency at a fixed, configured rate.
type CurrencyNormalizer struct {
	rate     decimal.Decimal
	methods  map[string]struct{}
	currency string
}

func NewCurrencyNormalizer(cfg config.Settlement) (*CurrencyNormalizer, error) {
	rate := decimal.NewFromFloat(cfg.ExchangeRate)
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate %s must be positive", domain.ErrInvalidAmount, rate)
	}
	methods := make(map[string]struct{}, len(cfg.AlternateCurrencyMethods))
	for _, m := range cfg.AlternateCurrencyMethods {
		methods[normalizeMethod(m)] = struct{}{}
	}
	return &CurrencyNormalizer{
		rate:     rate,
		methods:  methods,
		currency: cfg.SettlementCurrency,
	}, nil
}

func (n *CurrencyNormalizer) SettlementCurrency() string {
	return n.currency
}

func (n *CurrencyNormalizer) IsAlternate(paymentMethod string) bool {
	_, ok := n.methods[normalizeMethod(paymentMethod)]
	return ok
}

func (n *CurrencyNormalizer) ToSettlementCurrency(amount decimal.Decimal, paymentMethod string) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", domain.ErrInvalidAmount, amount)
	}
	if n.IsAlternate(paymentMethod) {
		return amount.DivRound(n.rate, 8), nil
	}
	return amount, nil
}

func normalizeMethod(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}
