package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/deals"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
)

const (
	// progressEvery is how often a mid-sweep progress line is logged.
	progressEvery = 30 * time.Second
	// waitingEvery is how often the idle "waiting for next snapshot" line is
	// logged between waves.
	waitingEvery = 5 * time.Minute
)

// Reconciler is the single consumer of completed fetches: it drains the
// store, deduplicates by content hash, advances realm state and hands
// matches to the sinks. Sink failures are isolated; a broken worker is not.
type Reconciler struct {
	cfg      Config
	store    *Store
	notifier ports.Notifier
	exporter ports.DealExporter // optional
	history  ports.DealHistory  // optional

	// Sweep bookkeeping: how many realms reported new data since the last
	// full sweep, and when the current wait/progress window started.
	updated int
	timer   time.Time
}

// NewReconciler wires a reconciler over the shared store. exporter and
// history may be nil.
func NewReconciler(
	cfg Config,
	store *Store,
	notifier ports.Notifier,
	exporter ports.DealExporter,
	history ports.DealHistory,
) *Reconciler {
	return &Reconciler{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		exporter: exporter,
		history:  history,
	}
}

// Run executes the reconciliation loop until the context is cancelled or a
// worker failure makes continuing unsafe.
func (r *Reconciler) Run(ctx context.Context) error {
	r.timer = time.Now().UTC()

	ticker := time.NewTicker(r.cfg.ReconcileTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("result watcher stopped")
			return nil
		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				slog.Error("result watcher: critical error, restart required", "err", err)
				return err
			}
		}
	}
}

func (r *Reconciler) tick(ctx context.Context) error {
	for _, fin := range r.store.TakeFinished() {
		if fin.Err != nil {
			// The fetch itself never errors; this means a pool worker died.
			return fmt.Errorf("reconciler: realm %d result: %w", fin.ID, fin.Err)
		}
		r.resolve(ctx, fin)
	}

	now := time.Now().UTC()

	if total := r.store.Len(); r.updated >= total && r.updated > 0 {
		r.updated = 0
		r.timer = now
		r.store.ResetAll()
	}

	if r.updated > 0 && now.Sub(r.timer) >= progressEvery {
		slog.Info("sweep progress", "updated", r.updated, "total", r.store.Len())
		r.timer = now
	}

	if r.updated == 0 && now.Sub(r.timer) >= waitingEvery {
		serverNow := now.Add(time.Duration(r.store.Desync() * float64(time.Second)))
		slog.Info("waiting for next snapshot",
			"server_time_utc", serverNow.Format("15:04:05"),
		)
		r.timer = now
	}

	return nil
}

// resolve applies one completed fetch to its realm, per the state machine.
func (r *Reconciler) resolve(ctx context.Context, fin Finished) {
	now := time.Now().UTC()
	out := fin.Outcome

	switch out.Status {
	case domain.FetchNewData:
		// Stale-repeat guard: providers sometimes serve cached payloads with
		// a fresh Last-Modified. Re-queue without advancing lastModified.
		if r.store.Seen(fin.ID, out.ContentHash) {
			slog.Warn("realm returned old data, queued again",
				"realm", fin.ID,
				"hash", out.ContentHash,
				"last_modified", out.LastModified,
			)
			r.store.Requeue(fin.ID, now)
			return
		}

		slog.Debug("realm had new data", "realm", fin.ID)

		if r.updated == 0 {
			r.startSweep(fin.ID, now)
		}

		r.deliver(ctx, fin.ID, out.Deals)

		r.updated++
		if r.updated == r.store.Len() {
			slog.Info("all realms scanned", "slowest_realm", fin.ID)
		}

		r.store.CommitNewData(fin.ID, out.LastModified, out.ContentHash, now)
		r.store.ObserveDesync(out.Desync)

	case domain.FetchError:
		if out.ErrorMessage != "" {
			slog.Error("issue with realm, rescanning momentarily",
				"realm", fin.ID,
				"err", out.ErrorMessage,
			)
		}
		r.store.Requeue(fin.ID, now)

	case domain.FetchQuota:
		slog.Debug("provider returned a quota error", "realm", fin.ID)
		r.store.MarkQuota(fin.ID, now)

	default: // unmodified
		r.store.Requeue(fin.ID, now)
	}
}

// startSweep marks the beginning of a new polling wave: the first realm to
// report fresh data resets the progress timer and the exported deals.
func (r *Reconciler) startSweep(realmID int, now time.Time) {
	r.timer = now
	slog.Info("new auction house data", "fastest_realm", realmID)

	if r.exporter != nil {
		if err := r.exporter.Reset(); err != nil {
			slog.Error("resetting deal export failed", "err", err)
		}
	}
}

// deliver fans matched deals out to the sinks. Every sink failure is caught
// and logged; none of them may disturb realm state.
func (r *Reconciler) deliver(ctx context.Context, realmID int, found domain.DealSet) {
	if found.Empty() {
		return
	}

	merged := deals.MergeDealSet(found)

	if err := r.notifier.Deals(ctx, realmID, merged); err != nil {
		slog.Error("deals callback failed", "realm", realmID, "err", err)
	}
	if r.exporter != nil {
		if err := r.exporter.Export(ctx, realmID, merged); err != nil {
			slog.Error("deal export failed", "realm", realmID, "err", err)
		}
	}
	if r.history != nil {
		if err := r.history.SaveDeals(ctx, realmID, merged); err != nil {
			slog.Error("deal history write failed", "realm", realmID, "err", err)
		}
	}
}
