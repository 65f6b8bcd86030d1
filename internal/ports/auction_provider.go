package ports

import (
	"context"
	"errors"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
)

// ErrNotModified is returned by Auctions when the provider signals the
// snapshot has not changed since the modifiedSince hint.
var ErrNotModified = errors.New("auction data not modified")

// ErrQuotaExceeded is returned when the provider rejects a request for rate
// limiting. It triggers the scheduler's global admission brake.
var ErrQuotaExceeded = errors.New("provider quota exceeded")

// AuctionProvider fetches auction-house snapshots from the remote API.
type AuctionProvider interface {
	// Auctions performs a conditional fetch of a connected realm's auction
	// house. modifiedSince is sent as an "if newer than" hint; ErrNotModified
	// and ErrQuotaExceeded are the typed signals, everything else is a
	// recoverable transport failure.
	Auctions(ctx context.Context, realmID int, modifiedSince time.Time) (*domain.AuctionSnapshot, error)

	// Ping hits a lightweight endpoint to prove the API is reachable and
	// returns the observed client/server clock offset in seconds.
	Ping(ctx context.Context) (float64, error)
}
