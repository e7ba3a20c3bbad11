package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AgentModel struct {
	ID               string          `gorm:"primaryKey"`
	Code             string          `gorm:"uniqueIndex;not null"`
	Handle           string          `gorm:"index"`
	Tier             string          `gorm:"not null"`
	ParentCode       string          `gorm:"index"`
	RegistrationCode string          `gorm:"index"`
	Rate             decimal.Decimal `gorm:"type:numeric(10,8);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	RemovedAt        *time.Time
}

func (AgentModel) TableName() string {
	return "agents"
}
