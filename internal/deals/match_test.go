package deals

import (
	"testing"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex(t *testing.T) {
	auctions := []*domain.Auction{
		{ID: 1, Item: domain.ItemRef{ID: 100}},
		{ID: 2, Item: domain.ItemRef{ID: 100}},
		{ID: 3, Item: domain.ItemRef{ID: 200}},
		{ID: 4, Item: domain.ItemRef{ID: domain.PetCageID, PetSpeciesID: 50}},
	}

	idx := BuildIndex(auctions)
	assert.Len(t, idx.Items[100], 2)
	assert.Len(t, idx.Items[200], 1)
	assert.Len(t, idx.Pets[50], 1)
	assert.NotContains(t, idx.Items, domain.PetCageID)
}

func TestFind_BudgetFilter(t *testing.T) {
	db := fixtureDB()
	idx := BuildIndex([]*domain.Auction{
		{ID: 1, Item: domain.ItemRef{ID: 100}, Buyout: 400000},
		{ID: 2, Item: domain.ItemRef{ID: 100}, Buyout: 600000},
	})
	list := domain.ShoppingList{
		Items: map[int]domain.ItemWant{
			100: {ID: 100, Budget: 500000},
		},
	}

	found := Find(db, list, idx)
	require.Len(t, found.Items[100], 1)
	assert.Equal(t, int64(1), found.Items[100][0].ID)
}

func TestFind_ZeroBudgetIsUnlimited(t *testing.T) {
	db := fixtureDB()
	idx := BuildIndex([]*domain.Auction{
		{ID: 1, Item: domain.ItemRef{ID: 100}, Buyout: 99999999},
	})
	list := domain.ShoppingList{
		Items: map[int]domain.ItemWant{100: {ID: 100}},
	}

	found := Find(db, list, idx)
	assert.Len(t, found.Items[100], 1)
}

func TestFind_LevelFilter(t *testing.T) {
	db := fixtureDB()
	scaled := &domain.Auction{
		ID:     1,
		Buyout: 1000,
		Item: domain.ItemRef{
			ID:         100,
			BonusLists: []int{1},
			Modifiers:  []domain.Modifier{{Type: scalingModifierType, Value: 5}},
		},
	}
	base := &domain.Auction{ID: 2, Buyout: 1000, Item: domain.ItemRef{ID: 100}}
	idx := BuildIndex([]*domain.Auction{scaled, base})

	list := domain.ShoppingList{
		Items: map[int]domain.ItemWant{
			100: {ID: 100, Levels: []int{50}},
		},
	}

	found := Find(db, list, idx)
	require.Len(t, found.Items[100], 1)
	assert.Equal(t, int64(1), found.Items[100][0].ID)
	assert.Equal(t, 50, found.Items[100][0].ItemLevel)
}

func TestFind_MatchedDealsHaveResolvedLevels(t *testing.T) {
	db := fixtureDB()
	idx := BuildIndex([]*domain.Auction{
		{ID: 1, Item: domain.ItemRef{ID: 100}, Buyout: 1000},
	})
	list := domain.ShoppingList{
		Items: map[int]domain.ItemWant{100: {ID: 100}},
	}

	found := Find(db, list, idx)
	require.Len(t, found.Items[100], 1)
	assert.True(t, found.Items[100][0].LevelResolved)
	assert.Equal(t, 20, found.Items[100][0].ItemLevel)
}

func TestFind_PetPredicates(t *testing.T) {
	db := fixtureDB()
	const rare, common = 3, 1

	makePet := func(id int64, quality, breed, level int) *domain.Auction {
		return &domain.Auction{
			ID:     id,
			Buyout: 10000,
			Item: domain.ItemRef{
				ID:           domain.PetCageID,
				PetSpeciesID: 50,
				PetQualityID: quality,
				PetBreedID:   breed,
				PetLevel:     level,
			},
		}
	}

	tests := []struct {
		name    string
		want    domain.PetWant
		auction *domain.Auction
		matched bool
	}{
		{
			name:    "quality excluded",
			want:    domain.PetWant{SpeciesID: 50, Qualities: []int{rare}},
			auction: makePet(1, common, 4, 25),
			matched: false,
		},
		{
			name:    "quality matched",
			want:    domain.PetWant{SpeciesID: 50, Qualities: []int{rare}},
			auction: makePet(2, rare, 4, 25),
			matched: true,
		},
		{
			name:    "breed excluded",
			want:    domain.PetWant{SpeciesID: 50, Breeds: []int{4, 14}},
			auction: makePet(3, rare, 5, 25),
			matched: false,
		},
		{
			name:    "level must be exact",
			want:    domain.PetWant{SpeciesID: 50, Level: 25},
			auction: makePet(4, rare, 4, 24),
			matched: false,
		},
		{
			name:    "over budget",
			want:    domain.PetWant{SpeciesID: 50, Budget: 5000},
			auction: makePet(5, rare, 4, 25),
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := BuildIndex([]*domain.Auction{tt.auction})
			list := domain.ShoppingList{Pets: map[int]domain.PetWant{50: tt.want}}

			found := Find(db, list, idx)
			if tt.matched {
				assert.Len(t, found.Pets[50], 1)
			} else {
				assert.Empty(t, found.Pets[50])
			}
		})
	}
}
