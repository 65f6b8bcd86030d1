package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

// PrintHistory renders recorded deal sightings as one table.
func PrintHistory(w io.Writer, db *staticdb.DB, region string, entries []ports.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No deals recorded in the selected window.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Seen", "Realm", "Deal", "ILvl", "Qty", "Price")

	for _, e := range entries {
		table.Append(
			e.SeenAt.Local().Format("01-02 15:04"),
			historyRealm(db, region, e.RealmID),
			historySubject(db, e),
			historyLevel(e),
			fmt.Sprintf("%d", e.Quantity),
			domain.FormatGold(e.Price),
		)
	}
	table.Render()
	fmt.Fprintf(w, "%d deals recorded\n", len(entries))
}

func historyRealm(db *staticdb.DB, region string, realmID int) string {
	names := db.RealmNames(region, realmID)
	if len(names) == 0 {
		return fmt.Sprintf("%d", realmID)
	}
	return strings.Join(names, " / ")
}

func historySubject(db *staticdb.DB, e ports.HistoryEntry) string {
	if e.SpeciesID != 0 {
		if name := db.PetSpeciesName(e.SpeciesID); name != "" {
			return name
		}
		return fmt.Sprintf("species %d", e.SpeciesID)
	}
	if meta, ok := db.Item(e.ItemID); ok && meta.Name != "" {
		return meta.Name
	}
	return fmt.Sprintf("item %d", e.ItemID)
}

func historyLevel(e ports.HistoryEntry) string {
	if e.ItemLevel == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", e.ItemLevel)
}
