package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/soulmaestro/GoblinStockAlerts/internal/adapters/notify"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Notifier = (*notify.Console)(nil)

func testDB() *staticdb.DB {
	return &staticdb.DB{
		PetSpecies:   map[int]string{50: "Anubisath Idol"},
		PetQualities: map[int]string{3: "Rare"},
		PetBreeds:    map[int]string{4: "P/P (male)"},
		Realms: map[string]map[int][]string{
			"US": {4: {"kilrogg", "winterhoof"}},
		},
	}
}

func testShopping() map[int]domain.ShoppingList {
	return map[int]domain.ShoppingList{
		4: {
			Items: map[int]domain.ItemWant{
				186374: {ID: 186374, Nickname: "Shadowghast Ingot", Budget: 5000000},
			},
			Pets: map[int]domain.PetWant{
				50: {SpeciesID: 50, Qualities: []int{3}},
			},
		},
	}
}

func TestConsole_PrintsItemAndPetTables(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, testDB(), "us", testShopping())

	deals := domain.NewDealSet()
	deals.Items[186374] = []*domain.Auction{
		{ID: 1, Quantity: 20, UnitPrice: 1230000, Item: domain.ItemRef{ID: 186374}},
	}
	deals.Pets[50] = []*domain.Auction{
		{ID: 2, Quantity: 1, Buyout: 990000, Item: domain.ItemRef{
			ID: domain.PetCageID, PetSpeciesID: 50, PetLevel: 25, PetQualityID: 3, PetBreedID: 4,
		}},
	}

	require.NoError(t, c.Deals(context.Background(), 4, deals))

	out := buf.String()
	assert.Contains(t, out, "Kilrogg / Winterhoof")
	assert.Contains(t, out, "Shadowghast Ingot")
	assert.Contains(t, out, "123.00g")
	assert.Contains(t, out, "500.00g", "item budget column")
	assert.Contains(t, out, "Anubisath Idol")
	assert.Contains(t, out, "Rare")
	assert.Contains(t, out, "P/P (male)")
	assert.Contains(t, out, "Unlimited", "pet has no budget configured")
}

func TestConsole_BidOnlyListingIsFlagged(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, testDB(), "us", testShopping())

	deals := domain.NewDealSet()
	deals.Items[186374] = []*domain.Auction{
		{ID: 1, Quantity: 1, Bid: 40000, Item: domain.ItemRef{ID: 186374}},
	}

	require.NoError(t, c.Deals(context.Background(), 4, deals))
	assert.Contains(t, buf.String(), "(bid only)")
}

func TestConsole_EmptyDealSetPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, testDB(), "us", testShopping())

	require.NoError(t, c.Deals(context.Background(), 4, domain.NewDealSet()))
	assert.Empty(t, buf.String())
}

func TestConsole_UnknownRealmFallsBackToID(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, testDB(), "us", testShopping())

	deals := domain.NewDealSet()
	deals.Items[186374] = []*domain.Auction{
		{ID: 1, Quantity: 1, Buyout: 10000, Item: domain.ItemRef{ID: 186374}},
	}

	require.NoError(t, c.Deals(context.Background(), 999, deals))
	assert.Contains(t, buf.String(), "realm 999")
}
