// Package watcher is the realm polling scheduler and deal-matching pipeline:
// a per-realm state machine, an admission-controlled scheduler loop feeding a
// bounded worker pool, and a reconciler that deduplicates results and hands
// matches to the notification sinks.
package watcher

import (
	"context"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

// Watcher runs the scheduler and reconciler over a shared realm store.
type Watcher struct {
	scheduler  *Scheduler
	reconciler *Reconciler
	store      *Store
}

// New wires the full pipeline. shopping is keyed by connected realm id;
// exporter and history may be nil.
func New(
	cfg Config,
	provider ports.AuctionProvider,
	db *staticdb.DB,
	shopping map[int]domain.ShoppingList,
	notifier ports.Notifier,
	exporter ports.DealExporter,
	history ports.DealHistory,
) *Watcher {
	ids := make([]int, 0, len(shopping))
	for id := range shopping {
		ids = append(ids, id)
	}
	store := NewStore(ids)

	return &Watcher{
		scheduler:  NewScheduler(cfg, store, provider, db, shopping),
		reconciler: NewReconciler(cfg, store, notifier, exporter, history),
		store:      store,
	}
}

// Store exposes the realm store for telemetry and tests.
func (w *Watcher) Store() *Store {
	return w.store
}

// Run executes both loops until the context is cancelled or either loop
// fails; the first error cancels the other side and wins.
func (w *Watcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- w.scheduler.Run(ctx) }()
	go func() { errCh <- w.reconciler.Run(ctx) }()

	err := <-errCh
	cancel()
	<-errCh
	return err
}
