package domain

import (
	"fmt"
	"strings"
	"time"
)

// SubscriptionDuration is a calendar period an order stays effective for.
type SubscriptionDuration struct {
	Code   string
	Years  int
	Months int
	Days   int
}

var (
	Duration7Days   = SubscriptionDuration{Code: "7days", Days: 7}
	Duration1Month  = SubscriptionDuration{Code: "1month", Months: 1}
	Duration3Months = SubscriptionDuration{Code: "3months", Months: 3}
	Duration6Months = SubscriptionDuration{Code: "6months", Months: 6}
	Duration1Year   = SubscriptionDuration{Code: "1year", Years: 1}
)

var durationSynonyms = map[string]SubscriptionDuration{
	"7days":    Duration7Days,
	"7day":     Duration7Days,
	"1week":    Duration7Days,
	"trial":    Duration7Days,
	"1month":   Duration1Month,
	"1months":  Duration1Month,
	"month":    Duration1Month,
	"monthly":  Duration1Month,
	"3months":  Duration3Months,
	"quarter":  Duration3Months,
	"6months":  Duration6Months,
	"halfyear": Duration6Months,
	"1year":    Duration1Year,
	"12months": Duration1Year,
	"year":     Duration1Year,
	"yearly":   Duration1Year,
}

func ParseDuration(code string) (SubscriptionDuration, error) {
	key := strings.ToLower(code)
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	d, ok := durationSynonyms[key]
	if !ok {
		return SubscriptionDuration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, code)
	}
	return d, nil
}

func (d SubscriptionDuration) AddTo(t time.Time) time.Time {
	return t.AddDate(d.Years, d.Months, d.Days)
}

// ExpiryFor derives the expiry from the effective time. Without an effective
// time there is no expiry.
func ExpiryFor(effective *time.Time, code string) (*time.Time, error) {
	if effective == nil {
		return nil, nil
	}
	d, err := ParseDuration(code)
	if err != nil {
		return nil, err
	}
	expiry := d.AddTo(*effective)
	return &expiry, nil
}
