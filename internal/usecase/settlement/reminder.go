package settlement

import (
	"math"
	"sort"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

type ReminderPolicy struct {
	Days      int
	TrialDays int
}

// threshold is Days for orders that earned commission and TrialDays for
// zero-commission orders, whatever was paid.
func (p ReminderPolicy) threshold(order *domain.Order) int {
	if !order.CommissionAmount.IsZero() {
		return p.Days
	}
	return p.TrialDays
}

// DaysUntil rounds up to whole days. Negative values mean the expiry has
// already passed.
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// OrdersNeedingFollowUp returns the active orders whose expiry falls inside
// the reminder threshold, soonest first. Evaluation has no side effects:
// IsReminded is reported as found on the order.
func OrdersNeedingFollowUp(orders []*domain.Order, now time.Time, policy ReminderPolicy) []domain.ReminderOrder {
	var out []domain.ReminderOrder
	for _, order := range orders {
		if !domain.CountsAsActive(order.Canonical()) || order.ExpiryTime == nil {
			continue
		}
		days := DaysUntil(*order.ExpiryTime, now)
		limit := policy.threshold(order)
		if days > limit {
			continue
		}
		out = append(out, domain.ReminderOrder{
			Order:           order,
			DaysUntilExpiry: days,
			ThresholdDays:   limit,
			IsReminded:      order.IsReminded,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntilExpiry < out[j].DaysUntilExpiry })
	return out
}
