package domain

import "strings"

// OrderStatus is the canonical lifecycle stage. Persisted rows keep the raw
// status string; ClassifyStatus maps it here.
type OrderStatus string

const (
	StatusPendingPayment   OrderStatus = "pending_payment"
	StatusConfirmedPayment OrderStatus = "confirmed_payment"
	StatusPendingConfig    OrderStatus = "pending_config"
	StatusActive           OrderStatus = "active"
	StatusRejected         OrderStatus = "rejected"
	StatusCancelled        OrderStatus = "cancelled"
	StatusExpired          OrderStatus = "expired"
	StatusUnknown          OrderStatus = "unknown"
)

var statusSynonyms = map[string]OrderStatus{
	"pending_payment":         StatusPendingPayment,
	"pending":                 StatusPendingPayment,
	"unpaid":                  StatusPendingPayment,
	"awaiting_payment":        StatusPendingPayment,
	"confirmed_payment":       StatusConfirmedPayment,
	"payment_confirmed":       StatusConfirmedPayment,
	"confirmed":               StatusConfirmedPayment,
	"paid":                    StatusConfirmedPayment,
	"pending_config":          StatusPendingConfig,
	"pending_configuration":   StatusPendingConfig,
	"awaiting_config":         StatusPendingConfig,
	"active":                  StatusActive,
	"confirmed_config":        StatusActive,
	"confirmed_configuration": StatusActive,
	"config_confirmed":        StatusActive,
	"completed":               StatusActive,
	"rejected":                StatusRejected,
	"refused":                 StatusRejected,
	"cancelled":               StatusCancelled,
	"canceled":                StatusCancelled,
	"expired":                 StatusExpired,
}

// ClassifyStatus never fails: unrecognised strings map to StatusUnknown.
func ClassifyStatus(raw string) OrderStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if status, ok := statusSynonyms[key]; ok {
		return status
	}
	return StatusUnknown
}

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// CountsForSettlement reports whether the order belongs in settlement
// statistics. Expired orders keep counting for historical totals.
func CountsForSettlement(s OrderStatus) bool {
	switch s {
	case StatusConfirmedPayment, StatusPendingConfig, StatusActive, StatusExpired:
		return true
	}
	return false
}

// CountsAsActive is the "currently active" subset of CountsForSettlement.
func CountsAsActive(s OrderStatus) bool {
	return CountsForSettlement(s) && s != StatusExpired
}

// CountsForCommission is true only for stages where the money was received
// and confirmed. Expired orders keep the commission they earned.
func CountsForCommission(s OrderStatus) bool {
	switch s {
	case StatusConfirmedPayment, StatusActive, StatusExpired:
		return true
	}
	return false
}
