package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/faucet_gateway/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "gateway.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Snapshots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fetched := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := store.SaveSnapshots(ctx, []*domain.PriceSnapshot{
		{CoingeckoID: "osmosis", PriceUSD: 0.52, FetchedAt: fetched},
		{CoingeckoID: "cosmos", PriceUSD: 7.1, FetchedAt: fetched},
	})
	require.NoError(t, err)

	snaps, err := store.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	// newest first
	assert.Equal(t, "cosmos", snaps[0].CoingeckoID)
	assert.Equal(t, 7.1, snaps[0].PriceUSD)
	assert.True(t, fetched.Equal(snaps[0].FetchedAt))
	assert.Equal(t, "osmosis", snaps[1].CoingeckoID)

	snaps, err = store.ListSnapshots(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestSQLiteStore_Claims(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok := &domain.ClaimRecord{
		Address:    "osmo1abc",
		Backend:    "http://backend/claim/osmo1abc",
		StatusCode: 200,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.SaveClaim(ctx, ok))
	assert.NotZero(t, ok.ID)

	require.NoError(t, store.SaveClaim(ctx, &domain.ClaimRecord{
		Address:    "osmo1def",
		Backend:    "http://backend/claim/osmo1def",
		StatusCode: 502,
		Error:      "connection refused",
		CreatedAt:  time.Now().UTC(),
	}))

	claims, err := store.ListClaims(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "osmo1def", claims[0].Address)
	assert.Equal(t, 502, claims[0].StatusCode)
	assert.Equal(t, "connection refused", claims[0].Error)
	assert.Equal(t, "", claims[1].Error)
}

func TestSQLiteStore_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveClaim(context.Background(), &domain.ClaimRecord{Address: "osmo1abc", CreatedAt: time.Now()}))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	claims, err := store.ListClaims(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}
