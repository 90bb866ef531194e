package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_BatchesWithDelayBetween(t *testing.T) {
	var sleeps []time.Duration
	m := NewManager(Config{
		BatchSize: 2,
		Delay:     time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	})

	var inFlight, maxInFlight int32
	process := func(ctx context.Context, url string) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			cur := atomic.LoadInt32(&maxInFlight)
			if n <= cur || atomic.CompareAndSwapInt32(&maxInFlight, cur, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	}

	stats, err := m.ProcessURLs(context.Background(), []string{"a", "b", "c", "d", "e"}, process)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, stats.BatchSizes)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps)
	assert.Equal(t, 5, stats.Succeeded)
	assert.LessOrEqual(t, maxInFlight, int32(2))
}

func TestManager_CountsFailures(t *testing.T) {
	m := NewManager(Config{BatchSize: 3})

	stats, err := m.ProcessURLs(context.Background(), []string{"ok1", "bad", "ok2"}, func(ctx context.Context, url string) error {
		if url == "bad" {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []int{3}, stats.BatchSizes)
}

func TestManager_StopsWhenContextEndsBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	var seen []string

	m := NewManager(Config{BatchSize: 1, Delay: time.Hour})
	stats, err := m.ProcessURLs(ctx, []string{"a", "b"}, func(ctx context.Context, url string) error {
		mu.Lock()
		seen = append(seen, url)
		mu.Unlock()
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, seen)
	assert.Equal(t, []int{1}, stats.BatchSizes)
}

func TestManager_Empty(t *testing.T) {
	stats, err := NewManager(Config{BatchSize: 2}).ProcessURLs(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, stats.BatchSizes)
}
