package strand

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoop_StartsAwake(t *testing.T) {
	l := NewLoop(WithLoopLogger(NopLogger()))
	require.Equal(t, LoopAwake, l.State())
	require.False(t, l.OnLoopGoroutine())
}

func TestLoop_RunProcessesTimersInOrder(t *testing.T) {
	l := NewLoop(WithLoopLogger(NopLogger()), WithIdleTickInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var order []int
	l.SetTimeout(func() { order = append(order, 2) }, 20)
	l.SetTimeout(func() { order = append(order, 1) }, 5)
	l.SetTimeout(func() {
		order = append(order, 3)
		cancel()
	}, 30)

	runDone := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(runDone)
	}()

	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not terminate")
	}
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestLoop_ClearTimeoutSkipsCallback(t *testing.T) {
	l := NewLoop(WithLoopLogger(NopLogger()), WithIdleTickInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := false
	id := l.SetTimeout(func() { fired = true }, 10)
	l.ClearTimeout(id)
	l.SetTimeout(func() { cancel() }, 20)

	runDone := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(runDone)
	}()
	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not terminate")
	}
	require.False(t, fired)
}

func TestLoop_PostRunsTask(t *testing.T) {
	l := NewLoop(WithLoopLogger(NopLogger()), WithIdleTickInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := false
	l.Post(func() { ran = true })
	l.SetTimeout(func() { cancel() }, 10)

	runDone := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(runDone)
	}()
	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not terminate")
	}
	require.True(t, ran)
}

func TestLoop_ShutdownDrainsThenTerminates(t *testing.T) {
	l := NewLoop(WithLoopLogger(NopLogger()), WithIdleTickInterval(5*time.Millisecond))
	ctx := context.Background()

	var drained bool
	l.SetTimeout(func() { drained = true }, 5)

	runDone := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(runDone)
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, l.Shutdown(ctx))

	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not terminate after shutdown")
	}
	require.True(t, drained)
	require.Equal(t, LoopTerminated, l.State())
}

func TestLoop_RunTwiceFails(t *testing.T) {
	l := NewLoop(WithLoopLogger(NopLogger()), WithIdleTickInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	l.SetTimeout(func() { cancel() }, 5)
	go func() { _ = l.Run(ctx) }()
	time.Sleep(30 * time.Millisecond)

	err := l.Run(context.Background())
	require.ErrorIs(t, err, ErrLoopAlreadyRunning)
}

func TestLoop_MetricsRecordsLatencyWhenEnabled(t *testing.T) {
	l := NewLoop(WithLoopLogger(NopLogger()), WithLoopMetrics(true), WithIdleTickInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	l.SetTimeout(func() {}, 1)
	l.SetTimeout(func() { cancel() }, 5)

	runDone := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(runDone)
	}()
	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not terminate")
	}

	snap := l.Metrics().Latency.Snapshot()
	require.GreaterOrEqual(t, snap.Count, 1)
}
