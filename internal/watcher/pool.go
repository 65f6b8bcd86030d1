package watcher

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
)

// Mode selects how the worker pool is sized.
type Mode string

const (
	// ModeLight runs a couple of workers for minimal footprint.
	ModeLight Mode = "light"
	// ModeBalanced runs one worker per CPU. The default.
	ModeBalanced Mode = "balanced"
	// ModeAggressive doubles up on CPUs for fetch-heavy realm sets.
	ModeAggressive Mode = "aggressive"
)

// Workers returns the worker count for a mode when no explicit count is
// configured.
func (m Mode) Workers() int {
	switch m {
	case ModeLight:
		return 2
	case ModeAggressive:
		return runtime.NumCPU() * 2
	default:
		return runtime.NumCPU()
	}
}

// Valid reports whether m is a known operating mode.
func (m Mode) Valid() bool {
	return m == ModeLight || m == ModeBalanced || m == ModeAggressive
}

var (
	// ErrPoolClosed is returned for submissions to, or tasks cancelled by, a
	// closed pool.
	ErrPoolClosed = errors.New("worker pool is closed")
	// ErrQueueFull is returned when the submission queue has no room. Under
	// correct sizing this cannot happen; the scheduler treats it as fatal.
	ErrQueueFull = errors.New("worker queue is full")
)

// Task is the future handle for one submitted fetch. The reconciler polls
// Done rather than blocking so a single loop stays responsive to all realms.
type Task struct {
	id       uuid.UUID
	done     atomic.Bool
	finished chan struct{}
	outcome  domain.FetchOutcome
	err      error
}

func newTask() *Task {
	return &Task{id: uuid.New(), finished: make(chan struct{})}
}

// ID identifies the task in logs.
func (t *Task) ID() uuid.UUID { return t.id }

// Done reports whether the task completed, without blocking.
func (t *Task) Done() bool { return t.done.Load() }

// Result returns the task's outcome. Valid only after Done reports true; a
// non-nil error means the worker itself failed, not the fetch.
func (t *Task) Result() (domain.FetchOutcome, error) {
	<-t.finished
	return t.outcome, t.err
}

func (t *Task) complete(outcome domain.FetchOutcome, err error) {
	t.outcome = outcome
	t.err = err
	t.done.Store(true)
	close(t.finished)
}

type job struct {
	task *Task
	fn   func() domain.FetchOutcome
}

// Pool is a bounded-concurrency executor for fetch-and-filter work.
type Pool struct {
	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool starts workers goroutines servicing a queue of the given depth.
func NewPool(workers, queueDepth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		jobs: make(chan job, queueDepth),
		quit: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			p.run(j)
		}
	}
}

// run executes one job, converting a panic into a task-level error. A panic
// here means the execution substrate is broken — the reconciler halts on it.
func (p *Pool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			j.task.complete(domain.FetchOutcome{}, fmt.Errorf("worker panic: %v", r))
		}
	}()
	j.task.complete(j.fn(), nil)
}

// Submit enqueues fn and returns its future handle. It never blocks:
// submission to a full queue or a closed pool fails immediately.
func (p *Pool) Submit(fn func() domain.FetchOutcome) (*Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	t := newTask()
	select {
	case p.jobs <- job{task: t, fn: fn}:
		return t, nil
	default:
		return nil, ErrQueueFull
	}
}

// Close drains the pool: in-flight work finishes, queued-but-not-started
// tasks are cancelled with ErrPoolClosed. Safe to call once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	p.wg.Wait()

	for {
		select {
		case j := <-p.jobs:
			j.task.complete(domain.FetchOutcome{}, ErrPoolClosed)
		default:
			return
		}
	}
}
