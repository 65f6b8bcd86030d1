package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/ports"
	"github.com/soulmaestro/GoblinStockAlerts/internal/staticdb"
)

// Config tunes the scheduler and reconciler loops.
type Config struct {
	// PollInterval is the provider's snapshot cadence.
	PollInterval time.Duration
	// AdmissionSlack lets a realm be picked up slightly early so a fixed
	// cadence refresh boundary is never missed.
	AdmissionSlack time.Duration
	// Tick is the scheduler's scan interval.
	Tick time.Duration
	// ReconcileTick is the reconciler's much shorter scan interval.
	ReconcileTick time.Duration
	// QuotaCooldown is how long all admission pauses after a rate-limit hit.
	QuotaCooldown time.Duration
	// IdleWindow is how long every realm must have been quiet before the
	// pool may shut down between waves.
	IdleWindow time.Duration
	// KeepWorkersResident disables idle pool shutdown.
	KeepWorkersResident bool
	// Workers overrides the mode's worker count when > 0.
	Workers int
	// Mode sizes the pool when Workers is 0.
	Mode Mode
	// ProbeAttempts is how many liveness probes a new pool must pass.
	ProbeAttempts int
	// ProbeRetryWait is the pause between failed probe rounds.
	ProbeRetryWait time.Duration
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		PollInterval:   time.Hour,
		AdmissionSlack: 9 * time.Second,
		Tick:           250 * time.Millisecond,
		ReconcileTick:  10 * time.Millisecond,
		QuotaCooldown:  15 * time.Second,
		IdleWindow:     90 * time.Second,
		Mode:           ModeBalanced,
		ProbeAttempts:  3,
		ProbeRetryWait: 3 * time.Second,
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return c.Mode.Workers()
}

// Scheduler decides every tick which READY realms are due and submits them
// to the worker pool without exceeding its concurrency bound. It also owns
// the pool's lifecycle: lazy startup behind a liveness probe, idle teardown
// between polling waves.
type Scheduler struct {
	cfg      Config
	store    *Store
	provider ports.AuctionProvider
	db       *staticdb.DB
	shopping map[int]domain.ShoppingList

	pool   *Pool
	braked bool
}

// NewScheduler wires a scheduler over the shared store.
func NewScheduler(
	cfg Config,
	store *Store,
	provider ports.AuctionProvider,
	db *staticdb.DB,
	shopping map[int]domain.ShoppingList,
) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		store:    store,
		provider: provider,
		db:       db,
		shopping: shopping,
	}
}

// Run executes the scheduling loop until the context is cancelled or a
// submission fails. The pool is always drained before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"realms", s.store.Len(),
		"mode", string(s.cfg.Mode),
		"workers", s.cfg.workers(),
	)

	defer s.closePool()

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("scheduler: critical error, restart required", "err", err)
				return err
			}
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) error {
	now := time.Now().UTC()

	// Global brake: one rate-limited realm pauses everything, because the
	// remote quota is shared across all outstanding work.
	if tagged, ok := s.store.QuotaBrake(); ok {
		if now.Sub(tagged) < s.cfg.QuotaCooldown {
			if !s.braked {
				s.braked = true
				slog.Warn("provider quota hit, pausing all scheduling",
					"cooldown", s.cfg.QuotaCooldown,
				)
			}
			return nil
		}
		released := s.store.ReleaseQuota()
		s.braked = false
		slog.Info("quota cooldown elapsed, scheduling continuing", "realms_released", released)
	}

	ids := s.store.IDs()
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	for _, id := range ids {
		if !s.store.TryAdmit(id, time.Now().UTC(), s.cfg.PollInterval, s.cfg.AdmissionSlack) {
			continue
		}

		if s.pool == nil {
			if err := s.startPool(ctx); err != nil {
				return err
			}
		}

		realmID := id
		list := s.shopping[id]
		lastModified := s.store.LastModified(id)

		task, err := s.pool.Submit(func() domain.FetchOutcome {
			return fetchAndFilter(ctx, s.provider, s.db, realmID, list, lastModified)
		})
		if err != nil {
			// Dropping a realm silently would break the sweep accounting, so
			// a rejected submission tears the whole watcher down.
			return fmt.Errorf("scheduler: submit realm %d: %w", id, err)
		}

		s.store.MarkScheduled(id, task)
		slog.Debug("realm scheduled", "realm", id, "task", task.ID())
	}

	if !s.cfg.KeepWorkersResident && s.pool != nil &&
		s.store.AllIdle(time.Now().UTC(), s.cfg.IdleWindow) {
		slog.Info("workers idle, shutting down pool")
		s.closePool()
	}

	return nil
}

// startPool creates the worker pool and blocks admission until the remote
// API passes a liveness probe. Probe failures are logged and retried; only
// context cancellation aborts.
func (s *Scheduler) startPool(ctx context.Context) error {
	slog.Info("workers starting", "workers", s.cfg.workers())
	pool := NewPool(s.cfg.workers(), s.store.Len())

	for {
		if err := s.probe(ctx); err == nil {
			break
		} else {
			slog.Error("api probe failed; check client credentials if this is the first run",
				"err", err,
			)
		}

		select {
		case <-ctx.Done():
			pool.Close()
			return ctx.Err()
		case <-time.After(s.cfg.ProbeRetryWait):
		}
	}

	s.pool = pool
	slog.Info("api confirmed working", "avg_desync_seconds", s.store.Desync())
	return nil
}

// probe hits the lightweight endpoint ProbeAttempts times, folding each
// observed clock offset into the shared desync estimate.
func (s *Scheduler) probe(ctx context.Context) error {
	for i := 0; i < s.cfg.ProbeAttempts; i++ {
		desync, err := s.provider.Ping(ctx)
		if err != nil {
			return err
		}
		slog.Debug("probe served", "desync_seconds", desync)
		s.store.ObserveDesync(desync)
	}
	return nil
}

func (s *Scheduler) closePool() {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
		slog.Info("workers shut down")
	}
}
