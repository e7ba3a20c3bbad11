package request

import "github.com/shopspring/decimal"

type RegisterPrimaryRequest struct {
	Handle string           `json:"handle" validate:"required,max=64"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
}

type RegisterSecondaryRequest struct {
	Handle           string           `json:"handle" validate:"required,max=64"`
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	RegistrationCode string           `json:"registration_code,omitempty" validate:"omitempty,alphanum,max=32"`
}

type UpdateRateRequest struct {
	Rate *decimal.Decimal `json:"rate" validate:"required"`
}

type LinkParentRequest struct {
	ParentCode string `json:"parent_code" validate:"required,max=32"`
}
