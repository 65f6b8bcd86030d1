package deals

import (
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

// Find filters indexed auctions against one realm's shopping list and returns
// only the listings that satisfy every configured predicate.
func Find(db *staticdb.DB, list domain.ShoppingList, idx Index) domain.DealSet {
	found := domain.NewDealSet()

	for itemID, want := range list.Items {
		for _, a := range idx.Items[itemID] {
			if !matchItem(db, want, a) {
				continue
			}
			// Resolve lazily here rather than for every candidate: listings
			// over budget never pay for curve interpolation.
			ResolveLevel(db, a)
			found.Items[itemID] = append(found.Items[itemID], a)
		}
	}

	for speciesID, want := range list.Pets {
		for _, a := range idx.Pets[speciesID] {
			if !matchPet(want, a) {
				continue
			}
			found.Pets[speciesID] = append(found.Pets[speciesID], a)
		}
	}

	// Keys with no surviving candidates would otherwise linger as empty lists.
	for id, v := range found.Items {
		if len(v) == 0 {
			delete(found.Items, id)
		}
	}

	return found
}

func matchItem(db *staticdb.DB, want domain.ItemWant, a *domain.Auction) bool {
	if want.Budget > 0 && a.Price() > want.Budget {
		return false
	}
	if want.WantsLevel() {
		lvl, _ := ResolveLevel(db, a)
		if !want.MatchesLevel(lvl) {
			return false
		}
	}
	return true
}

func matchPet(want domain.PetWant, a *domain.Auction) bool {
	if want.Budget > 0 && a.Price() > want.Budget {
		return false
	}
	if len(want.Qualities) > 0 && !containsInt(want.Qualities, a.Item.PetQualityID) {
		return false
	}
	if len(want.Breeds) > 0 && !containsInt(want.Breeds, a.Item.PetBreedID) {
		return false
	}
	if want.Level > 0 && a.Item.PetLevel != want.Level {
		return false
	}
	return true
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
