package grpcapi

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/hierarchy"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func dialSettlementService(t *testing.T, store *memory.Store) *grpc.ClientConn {
	t.Helper()
	cfg := config.DefaultSettlement()
	currency, err := commission.NewCurrencyNormalizer(cfg)
	require.NoError(t, err)
	uc := settlement.NewDefaultSettlementUsecase(settlement.Dependencies{
		Orders:   store,
		Resolver: hierarchy.NewResolver(store),
		Engine:   commission.NewEngine(currency),
		Location: cfg.Location(),
		Policy:   settlement.ReminderPolicy{Days: cfg.ReminderDays, TrialDays: cfg.TrialReminderDays},
	})

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(zap.NewNop())))
	RegisterSettlementServiceServer(srv, NewSettlementHandler(uc, currency.SettlementCurrency()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func seedHierarchy(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.CreateAgent(ctx, &domain.Agent{Code: "P", Handle: "primary", Tier: domain.TierPrimary, Rate: decimal.RequireFromString("0.40")}))
	require.NoError(t, store.CreateAgent(ctx, &domain.Agent{Code: "S", Handle: "secondary", Tier: domain.TierSecondaryLinked, Rate: decimal.RequireFromString("0.25"), ParentCode: "P"}))

	paid := time.Now()
	require.NoError(t, store.CreateOrder(ctx, &domain.Order{ID: "o1", AgentCode: "P", Amount: decimal.NewFromInt(1000), Status: "active", PaymentTime: &paid}))
	require.NoError(t, store.CreateOrder(ctx, &domain.Order{ID: "o2", AgentCode: "S", Amount: decimal.NewFromInt(2000), Status: "confirmed_payment", PaymentTime: &paid}))
	return store
}

func call(t *testing.T, conn *grpc.ClientConn, method string, fields map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	out := &structpb.Struct{}
	err = conn.Invoke(context.Background(), method, req, out)
	return out, err
}

func TestGetAgentSettlementOverGRPC(t *testing.T) {
	conn := dialSettlementService(t, seedHierarchy(t))

	out, err := call(t, conn, GetAgentSettlementMethod, map[string]any{"agent_code": "P", "window": "lifetime"})
	require.NoError(t, err)

	own := out.GetFields()["own"].GetStructValue().GetFields()
	require.Equal(t, "400", own["direct_commission"].GetStringValue())
	require.Equal(t, "300", own["override_commission"].GetStringValue())
	require.Equal(t, "700", own["total_commission"].GetStringValue())
	require.Equal(t, "lifetime", out.GetFields()["window"].GetStringValue())
	require.Len(t, out.GetFields()["subordinates"].GetListValue().GetValues(), 1)
}

func TestComputeOrderCommissionOverGRPC(t *testing.T) {
	conn := dialSettlementService(t, seedHierarchy(t))

	out, err := call(t, conn, ComputeOrderCommissionMethod, map[string]any{
		"agent_code":     "S",
		"amount":         "715",
		"payment_method": "alipay",
	})
	require.NoError(t, err)
	f := out.GetFields()
	require.Equal(t, "100", f["settlement_amount"].GetStringValue())
	require.Equal(t, "25", f["direct_commission"].GetStringValue())
	require.Equal(t, "15", f["override_commission"].GetStringValue())
	require.Equal(t, "USDT", f["settlement_currency"].GetStringValue())

	out, err = call(t, conn, ComputeOrderCommissionMethod, map[string]any{"agent_code": "P", "amount": 250})
	require.NoError(t, err)
	require.Equal(t, "100", out.GetFields()["direct_commission"].GetStringValue())
}

func TestSettlementServiceErrorCodes(t *testing.T) {
	store := seedHierarchy(t)
	require.NoError(t, store.CreateAgent(context.Background(), &domain.Agent{
		Code: "D", Tier: domain.TierSecondaryLinked, Rate: decimal.RequireFromString("0.10"), ParentCode: "GONE",
	}))
	conn := dialSettlementService(t, store)

	cases := []struct {
		name   string
		method string
		fields map[string]any
		code   codes.Code
	}{
		{"missing agent code", GetAgentSettlementMethod, map[string]any{}, codes.InvalidArgument},
		{"bad window", GetAgentSettlementMethod, map[string]any{"agent_code": "P", "window": "year"}, codes.InvalidArgument},
		{"unknown agent", GetAgentSettlementMethod, map[string]any{"agent_code": "nobody"}, codes.NotFound},
		{"dangling parent", GetAgentSettlementMethod, map[string]any{"agent_code": "D"}, codes.FailedPrecondition},
		{"bad amount", ComputeOrderCommissionMethod, map[string]any{"agent_code": "P", "amount": "abc"}, codes.InvalidArgument},
		{"negative amount", ComputeOrderCommissionMethod, map[string]any{"agent_code": "P", "amount": -5}, codes.InvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := call(t, conn, tc.method, tc.fields)
			require.Error(t, err)
			require.Equal(t, tc.code, status.Code(err))
		})
	}
}
