package watcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/deals"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

// modifiedSkew is added to the conditional-fetch hint. The provider's own
// Last-Modified stamps lag its actual publish time, so asking for "newer
// than exactly lastModified" would re-download identical snapshots.
const modifiedSkew = 10 * time.Minute

// fetchAndFilter downloads one realm's auction snapshot and returns only the
// listings its shopping list matches. It is a pure function of its arguments
// and never fails past its boundary: every error becomes an outcome field so
// the reconciler has no failure paths to handle.
func fetchAndFilter(
	ctx context.Context,
	provider ports.AuctionProvider,
	db *staticdb.DB,
	realmID int,
	list domain.ShoppingList,
	lastModified time.Time,
) (out domain.FetchOutcome) {
	defer func() {
		// A bug in indexing or matching must not take the worker down.
		if r := recover(); r != nil {
			out = domain.FetchOutcome{
				Status:       domain.FetchError,
				ErrorMessage: fmt.Sprintf("unexpected failure filtering realm %d: %v", realmID, r),
			}
		}
	}()

	snap, err := provider.Auctions(ctx, realmID, lastModified.Add(modifiedSkew))
	switch {
	case errors.Is(err, ports.ErrNotModified):
		return domain.FetchOutcome{Status: domain.FetchUnmodified}
	case errors.Is(err, ports.ErrQuotaExceeded):
		return domain.FetchOutcome{Status: domain.FetchQuota}
	case err != nil:
		return domain.FetchOutcome{Status: domain.FetchError, ErrorMessage: transportMessage(err)}
	}

	idx := deals.BuildIndex(snap.Auctions)
	found := deals.Find(db, list, idx)

	return domain.FetchOutcome{
		Status:       domain.FetchNewData,
		Deals:        found,
		Desync:       snap.Desync,
		LastModified: snap.LastModified,
		ContentHash:  snap.ContentHash,
	}
}

// transportMessage renders a transport error for the log. Connection resets
// are routine provider noise and scare users, so they surface silently.
func transportMessage(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection reset") {
		return ""
	}
	return msg
}
