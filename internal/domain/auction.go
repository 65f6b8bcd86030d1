package domain

// PetCageID is the sentinel item id Blizzard uses for caged battle pets.
// Auctions carrying it are indexed by pet species instead of item id.
const PetCageID = 82800

// Auction is a single listing from a connected realm's auction house feed.
type Auction struct {
	ID       int64
	Quantity int
	// Exactly one of the three price fields is meaningful: commodities carry
	// UnitPrice, regular items carry Buyout (or only Bid when no buyout was set).
	Bid       int64
	Buyout    int64
	UnitPrice int64
	Item      ItemRef

	// Lazily resolved by the deal matcher so notification formatting does not
	// recompute curve interpolation for the same listing.
	LevelResolved bool
	ItemLevel     int
	ItemSuffix    string
}

// ItemRef is the item descriptor embedded in an auction.
type ItemRef struct {
	ID           int
	BonusLists   []int
	Modifiers    []Modifier
	PetSpeciesID int
	PetLevel     int
	PetQualityID int
	PetBreedID   int
}

// Modifier is one of an auction item's typed key/value attributes.
// Type 9 carries the player level used for item-level scaling.
type Modifier struct {
	Type  int
	Value int
}

// IsCommodity reports whether the listing is a stackable good priced per unit.
func (a *Auction) IsCommodity() bool {
	return a.UnitPrice > 0
}

// IsPet reports whether the listing is a caged battle pet.
func (a *Auction) IsPet() bool {
	return a.Item.ID == PetCageID
}

// Price returns the effective price of the listing: unit price for
// commodities, otherwise buyout, falling back to the current bid.
func (a *Auction) Price() int64 {
	if a.UnitPrice > 0 {
		return a.UnitPrice
	}
	if a.Buyout > 0 {
		return a.Buyout
	}
	return a.Bid
}

// BidOnly reports whether the listing can only be bid on, not bought out.
func (a *Auction) BidOnly() bool {
	return a.UnitPrice == 0 && a.Buyout == 0
}
