package ports

import (
	"context"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
)

// HistoryEntry is one recorded deal sighting.
type HistoryEntry struct {
	RealmID   int
	AuctionID int64
	ItemID    int
	SpeciesID int
	Price     int64
	Quantity  int
	ItemLevel int
	SeenAt    time.Time
}

// DealHistory persists notified deals for later inspection. Like the
// Notifier, its failures are isolated from the pipeline.
type DealHistory interface {
	// SaveDeals records every deal in the set for the given realm.
	SaveDeals(ctx context.Context, realmID int, deals domain.DealSet) error

	// History returns recorded deals in the given time range.
	History(ctx context.Context, from, to time.Time) ([]HistoryEntry, error)

	// Close closes the underlying database cleanly.
	Close() error
}
