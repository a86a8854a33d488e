package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuator/internal/domain"
	"valuator/internal/ports"
)

func connect(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("VALUATOR_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("VALUATOR_TEST_DATABASE_URL not set")
	}
	db, err := Connect(context.Background(), url, 2)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)
	return db
}

func TestDealStoreRoundTrip(t *testing.T) {
	db := connect(t)
	store := NewDealStore(db)
	ctx := context.Background()

	rec := ports.DealRecord{
		DealSummary: domain.DealSummary{ID: uuid.NewString(), Name: "Acme", Date: "2024-05-01"},
		Data:        json.RawMessage(`{"riskFactorValuation": 1250000}`),
	}
	require.NoError(t, store.SaveDeal(ctx, rec))

	got, err := store.GetDeal(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.DealSummary, got.DealSummary)
	assert.JSONEq(t, string(rec.Data), string(got.Data))

	list, err := store.ListDeals(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, rec.DealSummary)

	_, err = store.GetDeal(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := connect(t)
	applied, err := db.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "://nope", 0)
	assert.Error(t, err)
}
