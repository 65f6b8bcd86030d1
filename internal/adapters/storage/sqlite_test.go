package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/adapters/storage"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DealHistory = (*storage.SQLiteHistory)(nil)

func newHistory(t *testing.T) *storage.SQLiteHistory {
	t.Helper()
	s, err := storage.NewSQLiteHistory(filepath.Join(t.TempDir(), "gsa.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDeals() domain.DealSet {
	deals := domain.NewDealSet()
	deals.Items[186374] = []*domain.Auction{
		{ID: 10, Quantity: 20, UnitPrice: 1230000, Item: domain.ItemRef{ID: 186374}},
	}
	deals.Pets[50] = []*domain.Auction{
		{ID: 11, Quantity: 1, Buyout: 990000, Item: domain.ItemRef{
			ID: domain.PetCageID, PetSpeciesID: 50, PetLevel: 25,
		}},
	}
	return deals
}

func TestSaveDeals_RoundTrip(t *testing.T) {
	s := newHistory(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDeals(ctx, 4, sampleDeals()))

	entries, err := s.History(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// History sorts cheapest first.
	assert.Equal(t, int64(11), entries[0].AuctionID)
	assert.Equal(t, 50, entries[0].SpeciesID)
	assert.Equal(t, int64(990000), entries[0].Price)

	assert.Equal(t, int64(10), entries[1].AuctionID)
	assert.Equal(t, 186374, entries[1].ItemID)
	assert.Equal(t, int64(1230000), entries[1].Price)
	assert.Equal(t, 20, entries[1].Quantity)
	assert.Equal(t, 4, entries[1].RealmID)
}

func TestSaveDeals_UpsertKeepsOneRowPerListing(t *testing.T) {
	s := newHistory(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDeals(ctx, 4, sampleDeals()))
	require.NoError(t, s.SaveDeals(ctx, 4, sampleDeals()))

	entries, err := s.History(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "re-notified listings do not duplicate")
}

func TestSaveDeals_EmptySetIsNoop(t *testing.T) {
	s := newHistory(t)
	require.NoError(t, s.SaveDeals(context.Background(), 4, domain.NewDealSet()))
}

func TestHistory_RangeExcludesOutsideWindow(t *testing.T) {
	s := newHistory(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDeals(ctx, 4, sampleDeals()))

	past, err := s.History(ctx, time.Now().Add(-3*time.Hour), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestHistory_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gsa.db")
	ctx := context.Background()

	s, err := storage.NewSQLiteHistory(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveDeals(ctx, 4, sampleDeals()))
	require.NoError(t, s.Close())

	reopened, err := storage.NewSQLiteHistory(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.History(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
