package strand

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/strandrt/internal/manualhost"
)

func newTestDriver() (*Driver, *manualhost.Host) {
	host := manualhost.New()
	d := NewDriver(host, WithLogger(NopLogger()))
	return d, host
}

func TestAwait_SynchronousSettlement(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)

	res := Await[int](ctx, func(cb func(Try[int], bool)) func() {
		cb(Ok(7), true)
		return nil
	})
	require.Equal(t, Ok(7), res)
}

func TestAwait_HostTimer(t *testing.T) {
	d, host := newTestDriver()
	ctx := NewContext(context.Background(), d)

	var got Try[string]
	done := make(chan struct{})
	go func() {
		got = Await[string](ctx, func(cb func(Try[string], bool)) func() {
			id := host.SetTimeout(func() { cb(Ok("done"), true) }, 50)
			return func() { host.ClearTimeout(id) }
		})
		close(done)
	}()

	// give the goroutine a moment to register before advancing the clock.
	time.Sleep(10 * time.Millisecond)
	host.Advance(50)
	<-done

	require.Equal(t, Ok("done"), got)
}

func TestWait_BlocksUntilElapsed(t *testing.T) {
	d, host := newTestDriver()
	ctx := NewContext(context.Background(), d)

	done := make(chan struct{})
	go func() {
		Wait(ctx, 100*time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Wait returned before the timer elapsed")
	default:
	}

	host.Advance(100)
	<-done
}

func TestAsyncIO_RecoversPanic(t *testing.T) {
	res := AsyncIO[int](func() (int, error) {
		panic("kaboom")
	})
	require.True(t, res.IsExn())
	var pe *PanicError
	require.ErrorAs(t, res.Err, &pe)
}

func TestAsyncIONoExn_RepanicsAsInvariantViolation(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*InvariantViolationError)
		require.True(t, ok)
	}()
	AsyncIONoExn(func() int {
		panic("should never happen")
	})
}
