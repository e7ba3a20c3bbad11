package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// CommissionMetrics groups every metric the service exports. A nil
// *CommissionMetrics is valid and records nothing.
type CommissionMetrics struct {
	// Settlements
	SettlementsTotal   *prometheus.CounterVec
	SettlementDuration *prometheus.HistogramVec
	SettlementsAborted *prometheus.CounterVec
	FlaggedOrdersTotal *prometheus.CounterVec
	CommissionComputed *prometheus.CounterVec

	// Order lifecycle
	OrderTransitionsTotal *prometheus.CounterVec
	OrdersExpiredTotal    prometheus.Counter

	// Reminders
	RemindersDueTotal prometheus.Counter
}

func NewCommissionMetrics(reg prometheus.Registerer) *CommissionMetrics {
	factory := promauto.With(reg)
	return &CommissionMetrics{
		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_settlements_total",
				Help: "Number of agent settlements computed",
			},
			[]string{"tier", "window"},
		),
		SettlementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "commission_settlement_duration_seconds",
				Help:    "Time spent computing one agent settlement",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"tier"},
		),
		SettlementsAborted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_settlements_aborted_total",
				Help: "Settlements aborted by a structural error",
			},
			[]string{"reason"},
		),
		FlaggedOrdersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_flagged_orders_total",
				Help: "Orders excluded from or flagged in a settlement",
			},
			[]string{"reason"},
		),
		CommissionComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_amount_computed_total",
				Help: "Commission persisted at order confirmation, in settlement currency",
			},
			[]string{"kind"},
		),
		OrderTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_order_transitions_total",
				Help: "Order status transitions",
			},
			[]string{"status"},
		),
		OrdersExpiredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_orders_expired_total",
				Help: "Active orders moved to expired by the sweeper",
			},
		),
		RemindersDueTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_reminders_due_total",
				Help: "Reminder events published for orders close to expiry",
			},
		),
	}
}

func (m *CommissionMetrics) RecordSettlement(tier, window string, seconds float64, flags map[string]int) {
	if m == nil {
		return
	}
	m.SettlementsTotal.WithLabelValues(tier, window).Inc()
	m.SettlementDuration.WithLabelValues(tier).Observe(seconds)
	for reason, n := range flags {
		m.FlaggedOrdersTotal.WithLabelValues(reason).Add(float64(n))
	}
}

func (m *CommissionMetrics) RecordAbort(reason string) {
	if m == nil {
		return
	}
	m.SettlementsAborted.WithLabelValues(reason).Inc()
}

func (m *CommissionMetrics) RecordCommission(direct, override decimal.Decimal) {
	if m == nil {
		return
	}
	m.CommissionComputed.WithLabelValues("direct").Add(direct.InexactFloat64())
	m.CommissionComputed.WithLabelValues("override").Add(override.InexactFloat64())
}

func (m *CommissionMetrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(status).Inc()
}

func (m *CommissionMetrics) RecordExpired(n int) {
	if m == nil {
		return
	}
	m.OrdersExpiredTotal.Add(float64(n))
}

func (m *CommissionMetrics) RecordReminderDue() {
	if m == nil {
		return
	}
	m.RemindersDueTotal.Inc()
}
