package grpcapi

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-commission-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type SettlementHandler struct {
	settlementUc settlement.SettlementUsecase
	currency     string
}

func NewSettlementHandler(settlementUc settlement.SettlementUsecase, settlementCurrency string) *SettlementHandler {
	return &SettlementHandler{
		settlementUc: settlementUc,
		currency:     settlementCurrency,
	}
}

func (h *SettlementHandler) GetAgentSettlement(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	agentCode := mappers.String(r, "agent_code")
	if agentCode == "" {
		return nil, status.Error(codes.InvalidArgument, "agent_code is required")
	}
	window, err := domain.ParseWindow(mappers.String(r, "window"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s, err := h.settlementUc.GetAgentSettlement(ctx, agentCode, window)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(response.FromSettlement(s))
}

func (h *SettlementHandler) ComputeOrderCommission(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	input := settlement.OrderCommissionInput{
		OrderID:       mappers.String(r, "order_id"),
		AgentCode:     mappers.String(r, "agent_code"),
		PaymentMethod: mappers.String(r, "payment_method"),
	}
	if input.AgentCode == "" {
		return nil, status.Error(codes.InvalidArgument, "agent_code is required")
	}
	var err error
	if input.Amount, err = mappers.Decimal(r, "amount"); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if input.ActualPaid, err = mappers.Decimal(r, "actual_paid"); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := h.settlementUc.ComputeOrderCommission(ctx, input)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(response.FromCommission(res, h.currency))
}

func toStruct(v any) (*structpb.Struct, error) {
	out, err := mappers.ToStruct(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAgentNotFound), errors.Is(err, domain.ErrOrderNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidRate), errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidWindow), errors.Is(err, domain.ErrUnknownOrderStatus):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrDanglingParentReference), errors.Is(err, domain.ErrAgentRemoved),
		errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrUpstreamFetchFailure):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
