package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	SettlementServiceName        = "commission.v1.SettlementService"
	GetAgentSettlementMethod     = "/" + SettlementServiceName + "/GetAgentSettlement"
	ComputeOrderCommissionMethod = "/" + SettlementServiceName + "/ComputeOrderCommission"
)

// SettlementServiceServer carries requests and replies as
// google.protobuf.Struct so clients need no generated stubs.
type SettlementServiceServer interface {
	GetAgentSettlement(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ComputeOrderCommission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterSettlementServiceServer(s grpc.ServiceRegistrar, srv SettlementServiceServer) {
	s.RegisterService(&SettlementServiceDesc, srv)
}

var SettlementServiceDesc = grpc.ServiceDesc{
	ServiceName: SettlementServiceName,
	HandlerType: (*SettlementServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetAgentSettlement",
			Handler:    getAgentSettlementHandler,
		},
		{
			MethodName: "ComputeOrderCommission",
			Handler:    computeOrderCommissionHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "commission/v1/settlement.proto",
}

func getAgentSettlementHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).GetAgentSettlement(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetAgentSettlementMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SettlementServiceServer).GetAgentSettlement(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func computeOrderCommissionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SettlementServiceServer).ComputeOrderCommission(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ComputeOrderCommissionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SettlementServiceServer).ComputeOrderCommission(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
