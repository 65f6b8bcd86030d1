package domain

import "time"

// FetchStatus classifies the result of one fetch-and-filter attempt.
type FetchStatus int

const (
	// FetchNewData means the provider served a fresh snapshot.
	FetchNewData FetchStatus = iota
	// FetchUnmodified means the provider signalled nothing changed since the
	// conditional-fetch hint.
	FetchUnmodified
	// FetchError covers any recoverable failure (network, malformed payload).
	FetchError
	// FetchQuota means the provider rejected the request for rate limiting.
	FetchQuota
)

func (s FetchStatus) String() string {
	switch s {
	case FetchNewData:
		return "new_data"
	case FetchUnmodified:
		return "unmodified"
	case FetchError:
		return "error"
	case FetchQuota:
		return "quota"
	default:
		return "unknown"
	}
}

// DealSet groups matched auctions the same way shopping lists are keyed:
// items by item id, pets by species id.
type DealSet struct {
	Items map[int][]*Auction
	Pets  map[int][]*Auction
}

// NewDealSet returns an empty, initialized DealSet.
func NewDealSet() DealSet {
	return DealSet{
		Items: make(map[int][]*Auction),
		Pets:  make(map[int][]*Auction),
	}
}

// Empty reports whether the set contains no deals at all.
func (d DealSet) Empty() bool {
	return len(d.Items) == 0 && len(d.Pets) == 0
}

// FetchOutcome is the value a fetch worker hands to the reconciler. It is
// created once per attempt and consumed exactly once; every failure mode of
// the worker is folded into Status/ErrorMessage rather than an error return.
type FetchOutcome struct {
	Status       FetchStatus
	ErrorMessage string
	Deals        DealSet
	// Desync is the observed client/server clock offset in seconds for this
	// response. Only meaningful when Status is FetchNewData.
	Desync float64
	// LastModified is the provider's snapshot timestamp.
	LastModified time.Time
	// ContentHash fingerprints the raw payload for stale-repeat detection.
	ContentHash string
}

// AuctionSnapshot is a successfully fetched auction-house payload plus the
// response metadata the pipeline needs.
type AuctionSnapshot struct {
	Auctions     []*Auction
	LastModified time.Time
	ContentHash  string
	Desync       float64
}
