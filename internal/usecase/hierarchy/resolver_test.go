package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, agents ...*domain.Agent) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	for _, a := range agents {
		require.NoError(t, store.CreateAgent(context.Background(), a))
	}
	return store
}

func newAgent(code, handle string, tier domain.AgentTier, parent string) *domain.Agent {
	return &domain.Agent{Code: code, Handle: handle, Tier: tier, ParentCode: parent, Rate: decimal.RequireFromString("0.3")}
}

func TestResolvePrimaryListsSubordinates(t *testing.T) {
	store := seed(t,
		newAgent("P1", "@p1", domain.TierPrimary, ""),
		newAgent("S1", "@s1", domain.TierSecondaryLinked, "P1"),
		newAgent("S2", "@s2", domain.TierSecondaryLinked, "P1"),
		newAgent("S3", "@s3", domain.TierSecondaryIndependent, ""),
	)
	res, err := NewResolver(store).Resolve(context.Background(), "P1")
	require.NoError(t, err)
	require.Equal(t, domain.TierPrimary, res.Tier())
	require.Nil(t, res.Parent)
	require.Equal(t, []string{"S1", "S2"}, res.SubordinateCodes())
}

func TestResolveByHandle(t *testing.T) {
	store := seed(t,
		newAgent("P1", "@p1", domain.TierPrimary, ""),
		newAgent("S1", "@s1", domain.TierSecondaryLinked, "P1"),
	)
	res, err := NewResolver(store).Resolve(context.Background(), "@s1")
	require.NoError(t, err)
	require.Equal(t, "S1", res.Agent.Code)
	require.Equal(t, "P1", res.Parent.Code)
	require.Empty(t, res.Subordinates)
}

func TestResolveIndependentHasNoParent(t *testing.T) {
	store := seed(t, newAgent("S3", "@s3", domain.TierSecondaryIndependent, ""))
	res, err := NewResolver(store).Resolve(context.Background(), "S3")
	require.NoError(t, err)
	require.Nil(t, res.Parent)
	require.Empty(t, res.Flags)
}

func TestResolveDanglingParent(t *testing.T) {
	store := seed(t, newAgent("S1", "@s1", domain.TierSecondaryLinked, "GONE"))
	_, err := NewResolver(store).Resolve(context.Background(), "S1")
	require.ErrorIs(t, err, domain.ErrDanglingParentReference)
}

func TestResolveParentMustBePrimary(t *testing.T) {
	store := seed(t,
		newAgent("S0", "@s0", domain.TierSecondaryIndependent, ""),
		newAgent("S1", "@s1", domain.TierSecondaryLinked, "S0"),
	)
	_, err := NewResolver(store).Resolve(context.Background(), "S1")
	require.ErrorIs(t, err, domain.ErrDanglingParentReference)
}

func TestResolveLinkedWithoutParentIsFlagged(t *testing.T) {
	store := seed(t, newAgent("S1", "@s1", domain.TierSecondaryLinked, ""))
	res, err := NewResolver(store).Resolve(context.Background(), "S1")
	require.NoError(t, err)
	require.Nil(t, res.Parent)
	require.Len(t, res.Flags, 1)
	require.Equal(t, domain.FlagMissingParentLink, res.Flags[0].Reason)
}

func TestResolveNotFoundAndUpstream(t *testing.T) {
	store := seed(t)
	_, err := NewResolver(store).Resolve(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrAgentNotFound)

	store.FailWith = errors.New("connection reset")
	_, err = NewResolver(store).Resolve(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrUpstreamFetchFailure)
	require.NotErrorIs(t, err, domain.ErrAgentNotFound)
}

func TestBatchResolverReadsOnce(t *testing.T) {
	store := seed(t,
		newAgent("P1", "@p1", domain.TierPrimary, ""),
		newAgent("S1", "@s1", domain.TierSecondaryLinked, "P1"),
	)
	ctx := context.Background()
	batch := NewResolver(store).Batch()

	first, err := batch.Resolve(ctx, "S1")
	require.NoError(t, err)
	reads := store.Reads()

	second, err := batch.Resolve(ctx, "S1")
	require.NoError(t, err)
	require.Equal(t, reads, store.Reads())
	require.Same(t, first.Parent, second.Parent)

	plain := NewResolver(store)
	_, err = plain.Resolve(ctx, "S1")
	require.NoError(t, err)
	require.Greater(t, store.Reads(), reads)
}
