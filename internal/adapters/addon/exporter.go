// Package addon exports matched deals as a Lua data file for the in-game
// companion addon. The game only reloads SavedVariables-style files on UI
// load, so the file is rewritten whole on every update and the addon polls it.
package addon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

const dataFile = "GSA_Data.lua"

// Exporter implements ports.DealExporter. It keeps the latest deal set per
// realm in memory and rewrites the whole Lua file on every change, so the
// file always reflects exactly one sweep.
type Exporter struct {
	dir    string
	db     *staticdb.DB
	region string

	mu     sync.Mutex
	realms map[int]domain.DealSet
}

// NewExporter writes the data file into dir, creating it if needed.
func NewExporter(dir string, db *staticdb.DB, region string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("addon dir: %w", err)
	}
	return &Exporter{
		dir:    dir,
		db:     db,
		region: region,
		realms: make(map[int]domain.DealSet),
	}, nil
}

// Path returns the full path of the generated data file.
func (e *Exporter) Path() string {
	return filepath.Join(e.dir, dataFile)
}

// Reset drops all realms at the start of a new sweep so stale deals from the
// previous auction house snapshot never linger in game.
func (e *Exporter) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.realms = make(map[int]domain.DealSet)
	return e.writeLocked()
}

// Export replaces one realm's deals and rewrites the file.
func (e *Exporter) Export(_ context.Context, realmID int, deals domain.DealSet) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.realms[realmID] = deals
	return e.writeLocked()
}

// writeLocked renders and atomically replaces the data file. A crash between
// write and rename leaves the previous file intact.
func (e *Exporter) writeLocked() error {
	tmp, err := os.CreateTemp(e.dir, dataFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("addon temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(e.renderLocked()); err != nil {
		tmp.Close()
		return fmt.Errorf("addon write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("addon write: %w", err)
	}
	if err := os.Rename(tmp.Name(), e.Path()); err != nil {
		return fmt.Errorf("addon replace: %w", err)
	}
	return nil
}

// renderLocked emits deterministic Lua: realms, items and listings all come
// out sorted so identical state always produces an identical file.
func (e *Exporter) renderLocked() string {
	var b strings.Builder
	b.WriteString("-- Generated by GoblinStockAlerts. Do not edit.\n")
	b.WriteString("GSA_Data = {\n")

	for _, realmID := range sortedRealmIDs(e.realms) {
		deals := e.realms[realmID]
		if deals.Empty() {
			continue
		}

		for _, slug := range e.realmSlugs(realmID) {
			fmt.Fprintf(&b, "  [%q] = {\n", slug)
			b.WriteString("    items = {\n")
			for _, itemID := range sortedDealKeys(deals.Items) {
				for _, a := range byPrice(deals.Items[itemID]) {
					fmt.Fprintf(&b, "      { id = %d, price = %d, qty = %d, ilvl = %d },\n",
						itemID, a.Price(), a.Quantity, a.ItemLevel)
				}
			}
			b.WriteString("    },\n")
			b.WriteString("    pets = {\n")
			for _, speciesID := range sortedDealKeys(deals.Pets) {
				for _, a := range byPrice(deals.Pets[speciesID]) {
					fmt.Fprintf(&b, "      { species = %d, price = %d, level = %d, quality = %d, breed = %d },\n",
						speciesID, a.Price(), a.Item.PetLevel, a.Item.PetQualityID, a.Item.PetBreedID)
				}
			}
			b.WriteString("    },\n")
			b.WriteString("  },\n")
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// realmSlugs lists the member realm slugs so the addon can look up deals by
// the character's home realm. Unknown realms fall back to a numeric key.
func (e *Exporter) realmSlugs(realmID int) []string {
	slugs := e.db.RealmNames(e.region, realmID)
	if len(slugs) == 0 {
		return []string{fmt.Sprintf("%d", realmID)}
	}
	out := make([]string, len(slugs))
	for i, name := range slugs {
		out[i] = staticdb.Slug(name)
	}
	return out
}

func sortedRealmIDs(m map[int]domain.DealSet) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedDealKeys(m map[int][]*domain.Auction) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func byPrice(auctions []*domain.Auction) []*domain.Auction {
	out := append([]*domain.Auction(nil), auctions...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price() != out[j].Price() {
			return out[i].Price() < out[j].Price()
		}
		return out[i].ID < out[j].ID
	})
	return out
}
