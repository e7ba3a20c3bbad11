package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/commission"
	orderdto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/order"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/hierarchy"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	store     *memory.Store
	publisher *memory.Publisher
	marks     *memory.ReminderMarks
	uc        *DefaultOrderUsecase
	now       time.Time
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	cfg := config.DefaultSettlement()
	currency, err := commission.NewCurrencyNormalizer(cfg)
	require.NoError(t, err)

	f := &orderFixture{
		store:     memory.NewStore(),
		publisher: memory.NewPublisher(),
		marks:     memory.NewReminderMarks(),
		now:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	policy := settlement.ReminderPolicy{Days: cfg.ReminderDays, TrialDays: cfg.TrialReminderDays}
	calculator := settlement.NewDefaultSettlementUsecase(settlement.Dependencies{
		Orders:   f.store,
		Resolver: hierarchy.NewResolver(f.store),
		Engine:   commission.NewEngine(currency),
		Location: cfg.Location(),
		Policy:   policy,
	})
	f.uc = NewDefaultOrderUsecase(f.store, f.store, calculator, f.marks, f.publisher, nil, nil, policy)
	f.uc.Now = func() time.Time { return f.now }

	ctx := context.Background()
	for _, a := range []*domain.Agent{
		{Code: "P", Tier: domain.TierPrimary, Rate: decimal.RequireFromString("0.4")},
		{Code: "S", Tier: domain.TierSecondaryLinked, ParentCode: "P", Rate: decimal.RequireFromString("0.25")},
		{Code: "I", Tier: domain.TierSecondaryIndependent, Rate: decimal.RequireFromString("0.3")},
	} {
		require.NoError(t, f.store.CreateAgent(ctx, a))
	}
	return f
}

func (f *orderFixture) create(t *testing.T, agentCode, amount, duration string) *domain.Order {
	t.Helper()
	order, err := f.uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{
		AgentCode: agentCode,
		Amount:    decimal.RequireFromString(amount),
		Duration:  duration,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t, "S", "2000", "1 month")
	require.Equal(t, string(domain.StatusPendingPayment), order.Status)
	require.Equal(t, "1month", order.Duration)
	require.Len(t, order.OrderNumber, 12)
	require.Len(t, f.publisher.OrderEvents, 1)

	_, err := f.uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{AgentCode: "S", Amount: decimal.NewFromInt(1), Duration: "fortnight"})
	require.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = f.uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{AgentCode: "X", Amount: decimal.NewFromInt(1), Duration: "7days"})
	require.ErrorIs(t, err, domain.ErrAgentNotFound)

	_, err = f.uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{AgentCode: "S", Amount: decimal.NewFromInt(-1), Duration: "7days"})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestConfirmPaymentPersistsCommission(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t, "S", "2000", "1month")

	paid := decimal.RequireFromString("1500")
	confirmed, err := f.uc.ConfirmPayment(context.Background(), &orderdto.ConfirmPaymentInput{OrderID: order.ID, ActualPaid: &paid})
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusConfirmedPayment), confirmed.Status)
	require.Equal(t, f.now, *confirmed.PaymentTime)
	require.True(t, confirmed.SecondaryCommission.Equal(decimal.RequireFromString("375")))
	require.True(t, confirmed.PrimaryOverride.Equal(decimal.RequireFromString("225")))
	require.True(t, confirmed.CommissionAmount.Equal(decimal.RequireFromString("600")))

	stored, err := f.uc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, stored.CommissionAmount.Equal(decimal.RequireFromString("600")))

	last := f.publisher.OrderEvents[len(f.publisher.OrderEvents)-1]
	require.Equal(t, "confirmed_payment", last.Status)
	require.Equal(t, "600", last.CommissionAmount)

	_, err = f.uc.ConfirmPayment(context.Background(), &orderdto.ConfirmPaymentInput{OrderID: order.ID})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConfirmPaymentPrimaryHasNoSecondaryShare(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t, "P", "1000", "7days")
	confirmed, err := f.uc.ConfirmPayment(context.Background(), &orderdto.ConfirmPaymentInput{OrderID: order.ID})
	require.NoError(t, err)
	require.True(t, confirmed.CommissionAmount.Equal(decimal.RequireFromString("400")))
	require.True(t, confirmed.SecondaryCommission.IsZero())
	require.True(t, confirmed.PrimaryOverride.IsZero())
}

func TestConfirmPaymentOrphanedSecondaryKeepsDirectShare(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.store.CreateAgent(context.Background(), &domain.Agent{
		Code: "O", Tier: domain.TierSecondaryLinked, Rate: decimal.RequireFromString("0.25"),
	}))
	order := f.create(t, "O", "1000", "7days")

	confirmed, err := f.uc.ConfirmPayment(context.Background(), &orderdto.ConfirmPaymentInput{OrderID: order.ID})
	require.NoError(t, err)
	require.True(t, confirmed.SecondaryCommission.Equal(decimal.RequireFromString("250")))
	require.True(t, confirmed.PrimaryOverride.IsZero())
	require.True(t, confirmed.CommissionAmount.Equal(decimal.RequireFromString("250")))
}

type fixedCalculator struct {
	split *domain.OrderCommission
}

func (c fixedCalculator) ComputeForOrder(ctx context.Context, order *domain.Order) (*domain.OrderCommission, error) {
	return c.split, nil
}

// The persisted split follows the tier the calculator resolved, not a
// later read of the agent.
func TestConfirmPaymentUsesResolvedTier(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t, "P", "1000", "7days")
	f.uc.Calculator = fixedCalculator{split: &domain.OrderCommission{
		AgentCode:          "P",
		Tier:               domain.TierSecondaryLinked,
		DirectCommission:   decimal.RequireFromString("250"),
		OverrideCommission: decimal.RequireFromString("150"),
	}}
	reads := f.store.Reads()

	confirmed, err := f.uc.ConfirmPayment(context.Background(), &orderdto.ConfirmPaymentInput{OrderID: order.ID})
	require.NoError(t, err)
	require.True(t, confirmed.SecondaryCommission.Equal(decimal.RequireFromString("250")))
	require.True(t, confirmed.PrimaryOverride.Equal(decimal.RequireFromString("150")))
	require.Equal(t, reads+1, f.store.Reads())
}

func TestConfirmConfigSetsExpiry(t *testing.T) {
	f := newOrderFixture(t)
	order := f.create(t, "I", "100", "1month")

	_, err := f.uc.ConfirmConfig(context.Background(), &orderdto.ConfirmConfigInput{OrderID: order.ID})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.ConfirmPayment(context.Background(), &orderdto.ConfirmPaymentInput{OrderID: order.ID})
	require.NoError(t, err)

	effective := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	active, err := f.uc.ConfirmConfig(context.Background(), &orderdto.ConfirmConfigInput{OrderID: order.ID, EffectiveAt: &effective})
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusActive), active.Status)
	require.Equal(t, effective, *active.EffectiveTime)
	require.Equal(t, effective.AddDate(0, 1, 0), *active.ExpiryTime)
}

func TestRejectAndCancel(t *testing.T) {
	f := newOrderFixture(t)
	a := f.create(t, "P", "100", "7days")
	b := f.create(t, "P", "100", "7days")

	rejected, err := f.uc.RejectOrder(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusRejected), rejected.Status)

	_, err = f.uc.CancelOrder(context.Background(), a.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	cancelled, err := f.uc.CancelOrder(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusCancelled), cancelled.Status)

	_, err = f.uc.RejectOrder(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func (f *orderFixture) activate(t *testing.T, agentCode, amount, duration string, effective time.Time) *domain.Order {
	t.Helper()
	ctx := context.Background()
	order := f.create(t, agentCode, amount, duration)
	_, err := f.uc.ConfirmPayment(ctx, &orderdto.ConfirmPaymentInput{OrderID: order.ID})
	require.NoError(t, err)
	active, err := f.uc.ConfirmConfig(ctx, &orderdto.ConfirmConfigInput{OrderID: order.ID, EffectiveAt: &effective})
	require.NoError(t, err)
	return active
}

func TestExpireDue(t *testing.T) {
	f := newOrderFixture(t)
	old := f.activate(t, "P", "100", "7days", f.now.AddDate(0, 0, -8))
	fresh := f.activate(t, "P", "100", "1month", f.now.AddDate(0, 0, -1))

	n, err := f.uc.ExpireDue(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	stored, err := f.uc.GetOrderByID(context.Background(), old.ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusExpired), stored.Status)
	require.True(t, stored.CommissionAmount.Equal(decimal.RequireFromString("40")))

	stored, err = f.uc.GetOrderByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	require.Equal(t, string(domain.StatusActive), stored.Status)

	n, err = f.uc.ExpireDue(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestScanRemindersSkipsMarkedOrders(t *testing.T) {
	f := newOrderFixture(t)
	// Paid, expires in 5 days: inside the 7 day threshold.
	soon := f.activate(t, "P", "100", "7days", f.now.AddDate(0, 0, -2))
	// Paid, expires in about a month.
	f.activate(t, "P", "100", "1month", f.now)

	n, err := f.uc.ScanReminders(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, f.publisher.Reminders, 1)
	require.Equal(t, soon.ID, f.publisher.Reminders[0].OrderID)
	require.Equal(t, 5, f.publisher.Reminders[0].DaysUntilExpiry)

	marked, err := f.uc.MarkReminded(context.Background(), soon.ID)
	require.NoError(t, err)
	require.True(t, marked.IsReminded)

	n, err = f.uc.ScanReminders(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, f.publisher.Reminders, 1)
}
