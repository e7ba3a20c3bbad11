package agentdto

import "github.com/shopspring/decimal"

type RegisterPrimaryInput struct {
	Handle string
	// Rate is optional and may be given as a fraction or a percentage.
	Rate *decimal.Decimal
}

type RegisterSecondaryInput struct {
	Handle           string
	Rate             *decimal.Decimal
	RegistrationCode string
}

type UpdateRateInput struct {
	AgentCode string
	Rate      decimal.Decimal
}

type LinkToParentInput struct {
	AgentCode  string
	ParentCode string
}
