package blizzard

import "github.com/soulmaestro/GoblinStockAlerts/internal/domain"

// Wire types for the connected-realm auctions endpoint. Field presence varies
// by listing kind: commodities carry unit_price, everything else bid/buyout,
// and caged pets pack their stats into the item block.

type auctionsPayload struct {
	Auctions []wireAuction `json:"auctions"`
}

type wireAuction struct {
	ID        int64    `json:"id"`
	Item      wireItem `json:"item"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	Buyout    int64    `json:"buyout"`
	Bid       int64    `json:"bid"`
	TimeLeft  string   `json:"time_left"`
}

type wireItem struct {
	ID           int            `json:"id"`
	BonusLists   []int          `json:"bonus_lists"`
	Modifiers    []wireModifier `json:"modifiers"`
	PetSpeciesID int            `json:"pet_species_id"`
	PetLevel     int            `json:"pet_level"`
	PetQualityID int            `json:"pet_quality_id"`
	PetBreedID   int            `json:"pet_breed_id"`
}

type wireModifier struct {
	Type  int `json:"type"`
	Value int `json:"value"`
}

func (w wireAuction) toDomain() *domain.Auction {
	mods := make([]domain.Modifier, 0, len(w.Item.Modifiers))
	for _, m := range w.Item.Modifiers {
		mods = append(mods, domain.Modifier{Type: m.Type, Value: m.Value})
	}
	return &domain.Auction{
		ID:        w.ID,
		Quantity:  w.Quantity,
		Bid:       w.Bid,
		Buyout:    w.Buyout,
		UnitPrice: w.UnitPrice,
		Item: domain.ItemRef{
			ID:           w.Item.ID,
			BonusLists:   w.Item.BonusLists,
			Modifiers:    mods,
			PetSpeciesID: w.Item.PetSpeciesID,
			PetLevel:     w.Item.PetLevel,
			PetQualityID: w.Item.PetQualityID,
			PetBreedID:   w.Item.PetBreedID,
		},
	}
}
