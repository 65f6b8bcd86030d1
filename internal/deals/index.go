// Package deals turns a raw auction snapshot into the subset a shopping list
// actually cares about: indexing, price/level/pet filtering, item-level curve
// resolution and commodity merging.
package deals

import "github.com/soulmaestro/GoblinStockAlerts/internal/domain"

// Index partitions auctions by item id and pet species id. Caged battle pets
// all share the pet-cage item id, so they are keyed by species instead.
type Index struct {
	Items map[int][]*domain.Auction
	Pets  map[int][]*domain.Auction
}

// BuildIndex indexes a raw auction list in a single pass.
func BuildIndex(auctions []*domain.Auction) Index {
	idx := Index{
		Items: make(map[int][]*domain.Auction),
		Pets:  make(map[int][]*domain.Auction),
	}

	for _, a := range auctions {
		if a.IsPet() {
			idx.Pets[a.Item.PetSpeciesID] = append(idx.Pets[a.Item.PetSpeciesID], a)
		} else {
			idx.Items[a.Item.ID] = append(idx.Items[a.Item.ID], a)
		}
	}

	return idx
}
