package addon_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/soulmaestro/GoblinStockAlerts/internal/adapters/addon"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.DealExporter = (*addon.Exporter)(nil)

func testDB() *staticdb.DB {
	return &staticdb.DB{
		Realms: map[string]map[int][]string{
			"US": {4: {"kilrogg", "winterhoof"}},
		},
	}
}

func newExporter(t *testing.T) *addon.Exporter {
	t.Helper()
	e, err := addon.NewExporter(t.TempDir(), testDB(), "us")
	require.NoError(t, err)
	return e
}

func readFile(t *testing.T, e *addon.Exporter) string {
	t.Helper()
	data, err := os.ReadFile(e.Path())
	require.NoError(t, err)
	return string(data)
}

func itemDeals(itemID int, price int64) domain.DealSet {
	deals := domain.NewDealSet()
	deals.Items[itemID] = []*domain.Auction{
		{ID: 1, Quantity: 2, Buyout: price, Item: domain.ItemRef{ID: itemID}},
	}
	return deals
}

func TestExport_WritesOneEntryPerMemberRealm(t *testing.T) {
	e := newExporter(t)
	require.NoError(t, e.Export(context.Background(), 4, itemDeals(186374, 40000)))

	out := readFile(t, e)
	assert.Contains(t, out, `["kilrogg"] = {`)
	assert.Contains(t, out, `["winterhoof"] = {`)
	assert.Contains(t, out, "{ id = 186374, price = 40000, qty = 2, ilvl = 0 },")
}

func TestExport_PetsAndListingOrder(t *testing.T) {
	e := newExporter(t)

	deals := domain.NewDealSet()
	deals.Pets[50] = []*domain.Auction{
		{ID: 2, Quantity: 1, Buyout: 90000, Item: domain.ItemRef{
			ID: domain.PetCageID, PetSpeciesID: 50, PetLevel: 25, PetQualityID: 3, PetBreedID: 4,
		}},
		{ID: 3, Quantity: 1, Buyout: 50000, Item: domain.ItemRef{
			ID: domain.PetCageID, PetSpeciesID: 50, PetLevel: 1, PetQualityID: 2, PetBreedID: 4,
		}},
	}
	require.NoError(t, e.Export(context.Background(), 4, deals))

	out := readFile(t, e)
	cheap := strings.Index(out, "price = 50000")
	dear := strings.Index(out, "price = 90000")
	require.NotEqual(t, -1, cheap)
	require.NotEqual(t, -1, dear)
	assert.Less(t, cheap, dear, "listings sort cheapest first")
	assert.Contains(t, out, "{ species = 50, price = 50000, level = 1, quality = 2, breed = 4 },")
}

func TestReset_DropsPreviousSweep(t *testing.T) {
	e := newExporter(t)
	require.NoError(t, e.Export(context.Background(), 4, itemDeals(186374, 40000)))
	require.NoError(t, e.Reset())

	out := readFile(t, e)
	assert.NotContains(t, out, "186374")
	assert.Contains(t, out, "GSA_Data = {")
}

func TestExport_ReplacesRealmNotAppends(t *testing.T) {
	e := newExporter(t)
	require.NoError(t, e.Export(context.Background(), 4, itemDeals(186374, 40000)))
	require.NoError(t, e.Export(context.Background(), 4, itemDeals(100, 7000)))

	out := readFile(t, e)
	assert.NotContains(t, out, "186374", "older sweep's deals are replaced")
	assert.Contains(t, out, "id = 100")
}

func TestExport_UnknownRealmUsesNumericKey(t *testing.T) {
	e := newExporter(t)
	require.NoError(t, e.Export(context.Background(), 999, itemDeals(100, 7000)))
	assert.Contains(t, readFile(t, e), `["999"] = {`)
}

func TestExport_DeterministicOutput(t *testing.T) {
	e := newExporter(t)

	deals := domain.NewDealSet()
	deals.Items[200] = []*domain.Auction{{ID: 1, Quantity: 1, Buyout: 10, Item: domain.ItemRef{ID: 200}}}
	deals.Items[100] = []*domain.Auction{{ID: 2, Quantity: 1, Buyout: 20, Item: domain.ItemRef{ID: 100}}}

	require.NoError(t, e.Export(context.Background(), 4, deals))
	first := readFile(t, e)
	require.NoError(t, e.Export(context.Background(), 4, deals))
	assert.Equal(t, first, readFile(t, e))
}
