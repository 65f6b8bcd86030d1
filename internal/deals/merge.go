package deals

import (
	"sort"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
)

// MergeCommodities collapses commodity listings that share an (item id, unit
// price) pair into one representative with the quantities summed. Commodities
// come back grouped per item id from the highest price point to the lowest,
// with non-commodity listings appended unchanged.
//
// The provider lists one auction row per seller even when dozens sit at the
// same unit price; a buyer sees those as a single market depth level.
func MergeCommodities(items []*domain.Auction) []*domain.Auction {
	var rest []*domain.Auction
	byItem := make(map[int]map[int64]*domain.Auction)
	var itemOrder []int

	for _, a := range items {
		if !a.IsCommodity() {
			rest = append(rest, a)
			continue
		}

		prices, ok := byItem[a.Item.ID]
		if !ok {
			prices = make(map[int64]*domain.Auction)
			byItem[a.Item.ID] = prices
			itemOrder = append(itemOrder, a.Item.ID)
		}

		if rep, ok := prices[a.UnitPrice]; ok {
			rep.Quantity += a.Quantity
		} else {
			// Copy the representative so the merge never mutates a listing
			// something else may still hold.
			rep := *a
			prices[a.UnitPrice] = &rep
		}
	}

	out := make([]*domain.Auction, 0, len(items))
	for _, itemID := range itemOrder {
		prices := byItem[itemID]
		points := make([]int64, 0, len(prices))
		for p := range prices {
			points = append(points, p)
		}
		sort.Slice(points, func(i, j int) bool { return points[i] > points[j] })
		for _, p := range points {
			out = append(out, prices[p])
		}
	}
	return append(out, rest...)
}

// MergeDealSet applies MergeCommodities to every item group of a deal set in
// place. Pet deals are never commodities.
func MergeDealSet(d domain.DealSet) domain.DealSet {
	for itemID, list := range d.Items {
		d.Items[itemID] = MergeCommodities(list)
	}
	return d
}
