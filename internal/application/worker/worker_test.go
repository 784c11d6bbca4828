package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTicker implements Ticker for testing
type mockTicker struct {
	calls    atomic.Int32
	tickFunc func(ctx context.Context) ([]string, error)
}

func (m *mockTicker) Tick(ctx context.Context) ([]string, error) {
	m.calls.Add(1)
	if m.tickFunc != nil {
		return m.tickFunc(ctx)
	}
	return nil, nil
}

func TestNew_Defaults(t *testing.T) {
	w := New(&mockTicker{})
	assert.Equal(t, DefaultTickInterval, w.tickInterval)
	assert.Equal(t, 10*time.Second, w.operationTimeout)

	w = New(&mockTicker{}, WithTickInterval(0), WithOperationTimeout(-time.Second))
	assert.Equal(t, DefaultTickInterval, w.tickInterval)
	assert.Equal(t, 10*time.Second, w.operationTimeout)

	w = New(&mockTicker{}, WithTickInterval(50*time.Millisecond), WithOperationTimeout(time.Second))
	assert.Equal(t, 50*time.Millisecond, w.tickInterval)
	assert.Equal(t, time.Second, w.operationTimeout)
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	ticker := &mockTicker{}
	w := New(ticker, WithTickInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return ticker.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestStart_SkipsOverlappingTicks(t *testing.T) {
	release := make(chan struct{})
	var inFlight, maxInFlight atomic.Int32

	ticker := &mockTicker{tickFunc: func(ctx context.Context) ([]string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := maxInFlight.Load()
			if n <= old || maxInFlight.CompareAndSwap(old, n) {
				break
			}
		}
		<-release
		return nil, nil
	}}
	w := New(ticker, WithTickInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// The startup tick blocks Start itself, so release it first.
	go func() { done <- w.Start(ctx) }()
	release <- struct{}{}

	require.Eventually(t, func() bool { return inFlight.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	cancel()
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestRunOnce_ErrorDoesNotPanic(t *testing.T) {
	ticker := &mockTicker{tickFunc: func(ctx context.Context) ([]string, error) {
		return nil, errors.New("boom")
	}}
	w := New(ticker)

	w.RunOnce(context.Background())
	assert.Equal(t, int32(1), ticker.calls.Load())
}

func TestRunOnce_DetachedFromCancellation(t *testing.T) {
	var tickErr error
	ticker := &mockTicker{tickFunc: func(ctx context.Context) ([]string, error) {
		tickErr = ctx.Err()
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return []string{"a"}, nil
	}}
	w := New(ticker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.RunOnce(ctx)

	assert.NoError(t, tickErr)
}
