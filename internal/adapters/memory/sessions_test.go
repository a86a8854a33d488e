package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuator/internal/domain"
	"valuator/internal/ports"
	"valuator/internal/services/session"
)

func TestSessionStoreIsolatesCopies(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	s := session.New("s-1", time.Unix(0, 0).UTC())
	require.NoError(t, store.Create(ctx, s))

	s.SetContext(domain.ValuationContext{Sector: domain.SectorHardware, Region: domain.RegionEmerging})
	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SectorSaaS, got.Context().Sector)

	require.NoError(t, store.Save(ctx, s))
	got, err = store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SectorHardware, got.Context().Sector)
	assert.Equal(t, s.VCInputs(), got.VCInputs())
}

func TestSessionStoreNotFound(t *testing.T) {
	store := NewSessionStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, store.Save(context.Background(), session.New("missing", time.Now())), ports.ErrNotFound)
}

func TestSessionStoreRejectsDuplicateCreate(t *testing.T) {
	store := NewSessionStore()
	s := session.New("dup", time.Now())
	require.NoError(t, store.Create(context.Background(), s))
	assert.Error(t, store.Create(context.Background(), s))
}

func TestSessionStoreRejectsStaleSave(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	require.NoError(t, store.Create(ctx, session.New("s-1", time.Now())))

	first, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	second, err := store.Get(ctx, "s-1")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, first))
	assert.Equal(t, uint64(1), first.Version)
	assert.ErrorIs(t, store.Save(ctx, second), ports.ErrConflict)
	assert.Equal(t, uint64(0), second.Version)
}

func TestDealStoreListsInSaveOrder(t *testing.T) {
	ctx := context.Background()
	store := NewDealStore()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.SaveDeal(ctx, ports.DealRecord{
			DealSummary: domain.DealSummary{ID: id, Name: "deal " + id},
			Data:        []byte(`{}`),
		}))
	}
	assert.Error(t, store.SaveDeal(ctx, ports.DealRecord{DealSummary: domain.DealSummary{ID: "a"}}))

	list, err := store.ListDeals(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})

	rec, err := store.GetDeal(ctx, "a")
	require.NoError(t, err)
	rec.Data[0] = 'x'
	again, err := store.GetDeal(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(again.Data))

	_, err = store.GetDeal(ctx, "zzz")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
