package deals

import (
	"testing"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
	"github.com/stretchr/testify/assert"
)

func fixtureDB() *staticdb.DB {
	return &staticdb.DB{
		Items: map[int]staticdb.ItemMeta{
			100: {Name: "Test Blade", Level: 20},
			200: {Name: "Test Cloth", Level: 5},
		},
		Bonuses: map[int]staticdb.BonusEffect{
			1: {CurveID: 10},
			2: {LevelDelta: 7},
			3: {Suffix: "of the Aurora"},
			4: {LevelDelta: -3, Suffix: "of the Feverflare"},
			5: {CurveID: 999}, // curve missing from the db
		},
		Curves: map[int]staticdb.Curve{
			10: {Points: []staticdb.CurvePoint{
				{PlayerLevel: 1, ItemLevel: 10},
				{PlayerLevel: 10, ItemLevel: 100},
			}},
		},
	}
}

func TestResolveLevel_CurveInterpolation(t *testing.T) {
	db := fixtureDB()
	a := &domain.Auction{Item: domain.ItemRef{
		ID:         100,
		BonusLists: []int{1},
		Modifiers:  []domain.Modifier{{Type: scalingModifierType, Value: 5}},
	}}

	lvl, suffix := ResolveLevel(db, a)
	// Linear between (1,10) and (10,100): player level 5 -> 50.
	assert.Equal(t, 50, lvl)
	assert.Empty(t, suffix)
}

func TestResolveLevel_Saturation(t *testing.T) {
	db := fixtureDB()

	below := &domain.Auction{Item: domain.ItemRef{
		ID:         100,
		BonusLists: []int{1},
		Modifiers:  []domain.Modifier{{Type: scalingModifierType, Value: 0}},
	}}
	lvl, _ := ResolveLevel(db, below)
	assert.Equal(t, 10, lvl)

	above := &domain.Auction{Item: domain.ItemRef{
		ID:         100,
		BonusLists: []int{1},
		Modifiers:  []domain.Modifier{{Type: scalingModifierType, Value: 70}},
	}}
	lvl, _ = ResolveLevel(db, above)
	assert.Equal(t, 100, lvl)
}

func TestResolveLevel_FlatDeltaAndSuffix(t *testing.T) {
	db := fixtureDB()
	a := &domain.Auction{Item: domain.ItemRef{
		ID:         100,
		BonusLists: []int{2, 3},
	}}

	lvl, suffix := ResolveLevel(db, a)
	assert.Equal(t, 27, lvl) // base 20 + delta 7
	assert.Equal(t, "of the Aurora", suffix)
}

func TestResolveLevel_DeltaOnTopOfCurve(t *testing.T) {
	db := fixtureDB()
	a := &domain.Auction{Item: domain.ItemRef{
		ID:         100,
		BonusLists: []int{1, 4},
		Modifiers:  []domain.Modifier{{Type: scalingModifierType, Value: 10}},
	}}

	lvl, suffix := ResolveLevel(db, a)
	assert.Equal(t, 97, lvl) // curve 100 - 3
	assert.Equal(t, "of the Feverflare", suffix)
}

func TestResolveLevel_MissingLookupsDegrade(t *testing.T) {
	db := fixtureDB()

	unknownItem := &domain.Auction{Item: domain.ItemRef{ID: 42}}
	lvl, suffix := ResolveLevel(db, unknownItem)
	assert.Equal(t, 0, lvl)
	assert.Empty(t, suffix)

	// A bonus referencing a curve the db does not know contributes nothing.
	missingCurve := &domain.Auction{Item: domain.ItemRef{
		ID:         100,
		BonusLists: []int{5},
		Modifiers:  []domain.Modifier{{Type: scalingModifierType, Value: 5}},
	}}
	lvl, _ = ResolveLevel(db, missingCurve)
	assert.Equal(t, 20, lvl)
}

func TestResolveLevel_Cached(t *testing.T) {
	db := fixtureDB()
	a := &domain.Auction{Item: domain.ItemRef{ID: 100}}

	lvl, _ := ResolveLevel(db, a)
	assert.Equal(t, 20, lvl)
	assert.True(t, a.LevelResolved)

	// A second resolution must serve the cache even if the inputs changed.
	a.Item.BonusLists = []int{2}
	lvl, _ = ResolveLevel(db, a)
	assert.Equal(t, 20, lvl)
}

func TestInterpolate_Empty(t *testing.T) {
	assert.Equal(t, 0, interpolate(nil, 5))
}
