// Package notify renders matched deals for a human at a terminal.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

// Console implements ports.Notifier by printing deal tables.
type Console struct {
	out      io.Writer
	db       *staticdb.DB
	region   string
	shopping map[int]domain.ShoppingList
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole(db *staticdb.DB, region string, shopping map[int]domain.ShoppingList) *Console {
	return &Console{out: os.Stdout, db: db, region: region, shopping: shopping}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, db *staticdb.DB, region string, shopping map[int]domain.ShoppingList) *Console {
	return &Console{out: w, db: db, region: region, shopping: shopping}
}

// Deals prints one realm's matches: an item table, a pet table, or both.
func (c *Console) Deals(_ context.Context, realmID int, deals domain.DealSet) error {
	if deals.Empty() {
		return nil
	}

	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] %s\n", now, c.realmLabel(realmID))

	list := c.shopping[realmID]
	if len(deals.Items) > 0 {
		c.printItems(deals, list)
	}
	if len(deals.Pets) > 0 {
		c.printPets(deals, list)
	}
	return nil
}

func (c *Console) printItems(deals domain.DealSet, list domain.ShoppingList) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Item", "ILvl", "Qty", "Price", "Budget")

	for _, itemID := range sortedKeys(deals.Items) {
		want := list.Items[itemID]
		auctions := append([]*domain.Auction(nil), deals.Items[itemID]...)
		sort.Slice(auctions, func(i, j int) bool {
			return auctions[i].Price() < auctions[j].Price()
		})

		for _, a := range auctions {
			table.Append(
				itemLabel(want, itemID),
				ilvlLabel(a),
				fmt.Sprintf("%d", a.Quantity),
				priceLabel(a),
				domain.FormatGold(want.Budget),
			)
		}
	}
	table.Render()
}

func (c *Console) printPets(deals domain.DealSet, list domain.ShoppingList) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Pet", "Level", "Quality", "Breed", "Price", "Budget")

	for _, speciesID := range sortedKeys(deals.Pets) {
		want := list.Pets[speciesID]
		auctions := append([]*domain.Auction(nil), deals.Pets[speciesID]...)
		sort.Slice(auctions, func(i, j int) bool {
			return auctions[i].Price() < auctions[j].Price()
		})

		for _, a := range auctions {
			table.Append(
				petLabel(c.db, want, speciesID),
				fmt.Sprintf("%d", a.Item.PetLevel),
				c.db.PetQualityName(a.Item.PetQualityID),
				c.db.PetBreedName(a.Item.PetBreedID),
				priceLabel(a),
				domain.FormatGold(want.Budget),
			)
		}
	}
	table.Render()
}

// realmLabel renders the realm's member names, falling back to the raw id for
// realms missing from the reference data.
func (c *Console) realmLabel(realmID int) string {
	names := c.db.RealmNames(c.region, realmID)
	if len(names) == 0 {
		return fmt.Sprintf("realm %d", realmID)
	}
	return strings.Join(names, " / ")
}

func itemLabel(want domain.ItemWant, itemID int) string {
	if want.Nickname != "" {
		return want.Nickname
	}
	return fmt.Sprintf("item %d", itemID)
}

func petLabel(db *staticdb.DB, want domain.PetWant, speciesID int) string {
	if want.Nickname != "" {
		return want.Nickname
	}
	if name := db.PetSpeciesName(speciesID); name != "" {
		return name
	}
	return fmt.Sprintf("species %d", speciesID)
}

func ilvlLabel(a *domain.Auction) string {
	if !a.LevelResolved || a.ItemLevel == 0 {
		return "-"
	}
	if a.ItemSuffix != "" {
		return fmt.Sprintf("%d %s", a.ItemLevel, a.ItemSuffix)
	}
	return fmt.Sprintf("%d", a.ItemLevel)
}

// priceLabel renders the effective price. Bid-only listings can still be
// sniped at auction end, so they stay visible but flagged.
func priceLabel(a *domain.Auction) string {
	if a.BidOnly() {
		return domain.FormatGold(a.Price()) + " (bid only)"
	}
	return domain.FormatGold(a.Price())
}

func sortedKeys(m map[int][]*domain.Auction) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
