package ports

import (
	"context"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
)

// Notifier receives matched deals for one realm. Implementation failures are
// caught and logged by the reconciler; they never affect realm state.
type Notifier interface {
	// Deals presents the matched item and pet deals for a connected realm.
	// Item deals arrive commodity-merged.
	Deals(ctx context.Context, realmID int, deals domain.DealSet) error
}
