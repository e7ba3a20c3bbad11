package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderModel struct {
	ID            string          `gorm:"primaryKey"`
	OrderNumber   string          `gorm:"uniqueIndex;not null"`
	AgentCode     string          `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	ActualPaid    decimal.Decimal `gorm:"type:numeric(20,8)"`
	PaymentMethod string
	Duration      string
	Status        string `gorm:"index;not null"`

	CommissionAmount    decimal.Decimal `gorm:"type:numeric(20,8)"`
	SecondaryCommission decimal.Decimal `gorm:"type:numeric(20,8)"`
	PrimaryOverride     decimal.Decimal `gorm:"type:numeric(20,8)"`

	CreatedAt     time.Time `gorm:"index"`
	PaymentTime   *time.Time
	EffectiveTime *time.Time
	ExpiryTime    *time.Time `gorm:"index"`
	IsReminded    bool
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
