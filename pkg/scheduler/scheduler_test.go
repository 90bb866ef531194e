package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-sync/pkg/domain"
)

type countingRunner struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	hold     time.Duration
}

func (r *countingRunner) Run(ctx context.Context) (domain.SyncResult, error) {
	r.calls.Add(1)
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	select {
	case <-time.After(r.hold):
	case <-ctx.Done():
		return domain.SyncResult{}, ctx.Err()
	}
	return domain.SyncResult{RunID: "run"}, nil
}

func TestNew_RejectsInvalidSpec(t *testing.T) {
	_, err := New("not a schedule", &countingRunner{}, nil)
	assert.Error(t, err)

	_, err = New("0 2 * * *", &countingRunner{}, nil)
	assert.NoError(t, err)
}

func TestScheduler_RunsAndSkipsOverlap(t *testing.T) {
	runner := &countingRunner{hold: 1500 * time.Millisecond}
	s, err := New("@every 1s", runner, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.Next().IsZero())

	require.Eventually(t, func() bool { return runner.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(1200 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), runner.maxSeen.Load())
}

func TestScheduler_StopCancelsRun(t *testing.T) {
	runner := &countingRunner{hold: time.Minute}
	s, err := New("@every 1s", runner, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool { return runner.inFlight.Load() == 1 }, 3*time.Second, 20*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.Equal(t, int32(0), runner.inFlight.Load())
}
