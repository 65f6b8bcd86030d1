package ports

import (
	"context"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
)

// DealExporter mirrors deals into an external target (the in-game addon's
// data file). Reset wipes the previous sweep's deals; the reconciler calls
// it when the first realm of a new sweep reports fresh data.
type DealExporter interface {
	Reset() error
	Export(ctx context.Context, realmID int, deals domain.DealSet) error
}
