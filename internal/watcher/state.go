package watcher

import (
	"sync"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
)

// Status is the scheduling state of one connected realm.
type Status int

const (
	// StatusErrorQuota tags a realm whose last fetch hit the provider's rate
	// limit; it freezes all admission until the cooldown elapses.
	StatusErrorQuota Status = -2
	// StatusError marks a recoverable fetch failure.
	StatusError Status = -1
	// StatusReady means the realm may be admitted for fetching.
	StatusReady Status = 0
	// StatusScheduled means a fetch is in flight; the realm must not be
	// submitted again until it completes.
	StatusScheduled Status = 1
	// StatusFinished is the transient marker between a completed fetch and
	// its resolution by the reconciler.
	StatusFinished Status = 2
	// StatusNewData means the realm delivered fresh data this sweep.
	StatusNewData Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusErrorQuota:
		return "error_quota"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	case StatusScheduled:
		return "scheduled"
	case StatusFinished:
		return "finished"
	case StatusNewData:
		return "new_data"
	default:
		return "unknown"
	}
}

const (
	// maxDesyncSamples caps the rolling clock-offset window.
	maxDesyncSamples = 100
	// maxSeenHashes caps per-realm stale-repeat history, oldest evicted first.
	maxSeenHashes = 100
)

// realmState is the mutable per-realm record. All access goes through Store.
type realmState struct {
	id           int
	status       Status
	lastModified time.Time
	lastChecked  time.Time
	pending      *Task
	seenHashes   []string
}

// Store is the single source of truth for scheduling decisions: a
// mutex-guarded realm map plus the shared desync estimate. The scheduler
// writes at submission time, the reconciler at completion time; the narrow
// method set here keeps both sides from ad hoc field mutation.
type Store struct {
	mu     sync.Mutex
	realms map[int]*realmState
	desync []float64
}

// NewStore builds a store with every realm READY and its timestamps far
// enough in the past that the first admission check always passes.
func NewStore(realmIDs []int) *Store {
	past := time.Now().UTC().Add(-24 * time.Hour)
	realms := make(map[int]*realmState, len(realmIDs))
	for _, id := range realmIDs {
		realms[id] = &realmState{
			id:           id,
			status:       StatusReady,
			lastModified: past,
			lastChecked:  past,
		}
	}
	return &Store{realms: realms}
}

// IDs returns every configured realm id, in map order. Callers that care
// about fairness shuffle the result themselves.
func (s *Store) IDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.realms))
	for id := range s.realms {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of configured realms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.realms)
}

// Status returns a realm's current status.
func (s *Store) Status(id int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realms[id].status
}

// LastModified returns the timestamp of the realm's last ingested snapshot.
func (s *Store) LastModified(id int) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realms[id].lastModified
}

// Desync returns the mean observed client/server clock offset in seconds,
// or 0 when no samples exist.
func (s *Store) Desync() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desyncLocked()
}

func (s *Store) desyncLocked() float64 {
	if len(s.desync) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.desync {
		sum += v
	}
	return sum / float64(len(s.desync))
}

// ObserveDesync folds one clock-offset sample into the rolling window.
func (s *Store) ObserveDesync(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desync = append(s.desync, seconds)
	if len(s.desync) > maxDesyncSamples {
		s.desync = s.desync[len(s.desync)-maxDesyncSamples:]
	}
}

// TryAdmit reports whether a realm should be submitted for fetching: it must
// be READY and its snapshot old enough that the provider's fixed cadence is
// due, judged against desync-adjusted server time with a little slack so a
// refresh boundary is never missed.
func (s *Store) TryAdmit(id int, now time.Time, pollInterval, slack time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.realms[id]
	if r.status != StatusReady {
		return false
	}

	serverNow := now.Add(time.Duration(s.desyncLocked() * float64(time.Second)))
	return serverNow.Sub(r.lastModified) >= pollInterval-slack
}

// MarkScheduled records the pending fetch handle after a successful
// submission. The SCHEDULED gate guarantees at most one outstanding fetch
// per realm.
func (s *Store) MarkScheduled(id int, t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.realms[id]
	r.status = StatusScheduled
	r.pending = t
}

// Finished is one completed fetch pulled out of the store.
type Finished struct {
	ID      int
	Outcome domain.FetchOutcome
	// Err is non-nil only when the execution substrate itself failed (a
	// panicked or cancelled worker); the reconciler treats it as fatal.
	Err error
}

// TakeFinished collects every SCHEDULED realm whose pending fetch completed,
// transitions them to FINISHED and clears their handles. The reconciler is
// the only caller.
func (s *Store) TakeFinished() []Finished {
	s.mu.Lock()
	defer s.mu.Unlock()

	var done []Finished
	for id, r := range s.realms {
		if r.status != StatusScheduled || r.pending == nil || !r.pending.Done() {
			continue
		}
		outcome, err := r.pending.Result()
		r.status = StatusFinished
		r.pending = nil
		done = append(done, Finished{ID: id, Outcome: outcome, Err: err})
	}
	return done
}

// Seen reports whether a content hash was already processed for a realm.
func (s *Store) Seen(id int, hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.realms[id].seenHashes {
		if h == hash {
			return true
		}
	}
	return false
}

// Requeue resets a realm to READY without advancing lastModified, stamping
// the completion time.
func (s *Store) Requeue(id int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.realms[id]
	r.status = StatusReady
	r.lastChecked = now
}

// CommitNewData records a successfully ingested snapshot: hash remembered
// (bounded), lastModified advanced, status NEW_DATA.
func (s *Store) CommitNewData(id int, lastModified time.Time, hash string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.realms[id]
	r.seenHashes = append(r.seenHashes, hash)
	if len(r.seenHashes) > maxSeenHashes {
		r.seenHashes = r.seenHashes[len(r.seenHashes)-maxSeenHashes:]
	}
	r.lastModified = lastModified
	r.lastChecked = now
	r.status = StatusNewData
}

// MarkQuota tags a realm as rate limited, stamping the completion time. The
// scheduler's global brake keys off this.
func (s *Store) MarkQuota(id int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.realms[id]
	r.status = StatusErrorQuota
	r.lastChecked = now
}

// QuotaBrake returns the most recent completion time among ERROR_QUOTA
// realms, and whether any exist. The cooldown window is measured from it.
func (s *Store) QuotaBrake() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest time.Time
	found := false
	for _, r := range s.realms {
		if r.status == StatusErrorQuota && r.lastChecked.After(latest) {
			latest = r.lastChecked
			found = true
		}
	}
	return latest, found
}

// ReleaseQuota resets every ERROR_QUOTA realm to READY and returns how many
// were released.
func (s *Store) ReleaseQuota() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := 0
	for _, r := range s.realms {
		if r.status == StatusErrorQuota {
			r.status = StatusReady
			released++
		}
	}
	return released
}

// AllIdle reports whether every realm is READY and none completed a fetch
// within the window. Used by the idle-shutdown policy so the pool is not
// torn down mid-wave.
func (s *Store) AllIdle(now time.Time, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.realms {
		if r.status != StatusReady {
			return false
		}
		if now.Sub(r.lastChecked) < window {
			return false
		}
	}
	return true
}

// ResetAll sets every realm back to READY. Called when a full sweep
// completes.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.realms {
		r.status = StatusReady
	}
}
