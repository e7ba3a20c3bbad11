package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-commission-service/internal/usecase"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/commission"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/hierarchy"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t     *testing.T
	store *memory.Store
	srv   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.DefaultSettlement()
	currency, err := commission.NewCurrencyNormalizer(cfg)
	require.NoError(t, err)

	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	m := metrics.NewCommissionMetrics(reg)
	policy := settlement.ReminderPolicy{Days: cfg.ReminderDays, TrialDays: cfg.TrialReminderDays}

	settlementUC := settlement.NewDefaultSettlementUsecase(settlement.Dependencies{
		Orders:   store,
		Resolver: hierarchy.NewResolver(store),
		Engine:   commission.NewEngine(currency),
		Metrics:  m,
		Location: cfg.Location(),
		Policy:   policy,
	})
	agentUC, err := usecase.NewDefaultAgentUsecase(store, cfg, nil)
	require.NoError(t, err)
	orderUC := usecase.NewDefaultOrderUsecase(store, store, settlementUC, memory.NewReminderMarks(), memory.NewPublisher(), m, nil, policy)

	h := NewHandler(agentUC, orderUC, settlementUC, currency.SettlementCurrency(), nil)
	srv := httptest.NewServer(NewRouter(h, reg))
	t.Cleanup(srv.Close)
	return &testServer{t: t, store: store, srv: srv}
}

func (s *testServer) do(method, path string, body any, out any) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAgentAndOrderFlow(t *testing.T) {
	s := newTestServer(t)

	var primary response.AgentResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/agents/primary", map[string]any{"handle": "@p", "rate": 40}, &primary))
	require.Equal(t, "0.4", primary.Rate)
	require.Equal(t, "40.00", primary.RatePercent)

	var secondary response.AgentResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/agents/secondary",
		map[string]any{"handle": "@s", "registration_code": primary.RegistrationCode}, &secondary))
	require.Equal(t, string(domain.TierSecondaryLinked), secondary.Tier)
	require.Equal(t, primary.Code, secondary.ParentCode)

	var own, sub response.OrderResponse
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/orders",
		map[string]any{"agent_code": primary.Code, "amount": "1000", "duration": "1month"}, &own))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/orders",
		map[string]any{"agent_code": secondary.Code, "amount": "2000", "duration": "3 months"}, &sub))

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/orders/"+own.ID+"/confirm-payment", nil, &own))
	require.Equal(t, "400", own.CommissionAmount)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/orders/"+sub.ID+"/confirm-payment", map[string]any{}, &sub))
	require.Equal(t, "300", sub.PrimaryOverride)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/orders/"+own.ID+"/confirm-config", nil, &own))
	require.Equal(t, "active", own.Status)
	require.NotNil(t, own.ExpiryTime)

	var settled response.SettlementResponse
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/agents/"+primary.Code+"/settlement?window=month", nil, &settled))
	require.Equal(t, "month", settled.Window)
	require.Equal(t, "700", settled.Own.TotalCommission)
	require.Equal(t, "0.23333333", settled.BlendedRate)
	require.Len(t, settled.Subordinates, 1)
	require.Contains(t, settled.Periods, "lifetime")

	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/orders/"+own.ID+"/confirm-payment", nil, nil))
	require.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/orders/"+own.ID+"/explode", nil, nil))
}

func TestComputeCommissionEndpoint(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.store.CreateAgent(ctx, &domain.Agent{Code: "P", Tier: domain.TierPrimary, Rate: decimal.RequireFromString("0.4")}))
	require.NoError(t, s.store.CreateAgent(ctx, &domain.Agent{Code: "S", Tier: domain.TierSecondaryLinked, ParentCode: "P", Rate: decimal.RequireFromString("0.25")}))

	var out response.CommissionResponse
	status := s.do(http.MethodPost, "/commission/compute",
		map[string]any{"agent_code": "S", "amount": "715", "payment_method": "Alipay"}, &out)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "100", out.SettlementAmount)
	require.Equal(t, "USDT", out.SettlementCurrency)
	require.Equal(t, "25", out.DirectCommission)
	require.Equal(t, "15", out.OverrideCommission)
	require.Equal(t, "P", out.ParentCode)

	require.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodPost, "/commission/compute",
		map[string]any{"agent_code": "S", "amount": "-1"}, nil))
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/commission/compute", map[string]any{"amount": "1"}, nil))
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.store.CreateAgent(ctx, &domain.Agent{Code: "S", Tier: domain.TierSecondaryLinked, ParentCode: "GONE", Rate: decimal.RequireFromString("0.25")}))

	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/agents/nobody/settlement", nil, nil))
	require.Equal(t, http.StatusConflict, s.do(http.MethodGet, "/agents/S/settlement", nil, nil))
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/agents/S/settlement?window=decade", nil, nil))
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, "/agents/S/rate", map[string]any{}, nil))
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/agents/S", nil, nil))
	require.Equal(t, http.StatusConflict, s.do(http.MethodPatch, "/agents/S/rate", map[string]any{"rate": "0.1"}, nil))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", nil, nil))

	require.NoError(t, s.store.CreateAgent(context.Background(), &domain.Agent{Code: "P", Tier: domain.TierPrimary, Rate: decimal.RequireFromString("0.4")}))
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/agents/P/settlement", nil, nil))

	resp, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "commission_settlements_total")
}
