package watcher_test

import (
	"testing"
	"time"

	"github.com/soulmaestro/GoblinStockAlerts/internal/domain"
	"github.com/soulmaestro/GoblinStockAlerts/internal/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitAndPoll(t *testing.T) {
	p := watcher.NewPool(2, 4)
	defer p.Close()

	task, err := p.Submit(func() domain.FetchOutcome {
		return domain.FetchOutcome{Status: domain.FetchNewData, ContentHash: "abc"}
	})
	require.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", task.ID().String())

	require.Eventually(t, task.Done, time.Second, time.Millisecond)

	outcome, err := task.Result()
	require.NoError(t, err)
	assert.Equal(t, domain.FetchNewData, outcome.Status)
	assert.Equal(t, "abc", outcome.ContentHash)
}

func TestPool_PanicBecomesTaskError(t *testing.T) {
	p := watcher.NewPool(1, 1)
	defer p.Close()

	task, err := p.Submit(func() domain.FetchOutcome {
		panic("worker exploded")
	})
	require.NoError(t, err)

	require.Eventually(t, task.Done, time.Second, time.Millisecond)

	_, err = task.Result()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker exploded")
}

func TestPool_QueueFull(t *testing.T) {
	p := watcher.NewPool(1, 1)
	defer p.Close()

	started := make(chan struct{})
	block := make(chan struct{})
	slow := func() domain.FetchOutcome {
		<-block
		return domain.FetchOutcome{}
	}

	// One running, one queued; the third submission must be rejected, not
	// block the scheduler.
	_, err := p.Submit(func() domain.FetchOutcome {
		close(started)
		<-block
		return domain.FetchOutcome{}
	})
	require.NoError(t, err)
	<-started

	_, err = p.Submit(slow)
	require.NoError(t, err)

	_, err = p.Submit(slow)
	assert.ErrorIs(t, err, watcher.ErrQueueFull)

	close(block)
}

func TestPool_CloseRejectsSubmissions(t *testing.T) {
	p := watcher.NewPool(1, 1)
	p.Close()

	_, err := p.Submit(func() domain.FetchOutcome { return domain.FetchOutcome{} })
	assert.ErrorIs(t, err, watcher.ErrPoolClosed)

	// Idempotent.
	p.Close()
}

func TestPool_CloseWaitsForInFlight(t *testing.T) {
	p := watcher.NewPool(1, 1)

	release := make(chan struct{})
	task, err := p.Submit(func() domain.FetchOutcome {
		<-release
		return domain.FetchOutcome{Status: domain.FetchUnmodified}
	})
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	p.Close()

	require.True(t, task.Done(), "in-flight work must finish before Close returns")
	outcome, err := task.Result()
	require.NoError(t, err)
	assert.Equal(t, domain.FetchUnmodified, outcome.Status)
}
