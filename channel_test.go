package strand

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannel_TryReceiveEmpty(t *testing.T) {
	c := NewChannel[int]()
	_, ok := c.TryReceive()
	require.False(t, ok)
}

func TestChannel_EmitThenReceiveBuffers(t *testing.T) {
	c := NewChannel[int]()
	c.Emit(1)
	c.Emit(2)

	v, ok := c.TryReceive()
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, ok = c.TryReceive()
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = c.TryReceive()
	require.False(t, ok)
}

func TestChannel_ReceiveBeforeEmitDispatchesSynchronously(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)
	c := NewChannel[string]()

	done := make(chan struct{})
	var got string
	go func() {
		v, err := c.Receive(ctx)
		require.NoError(t, err)
		got = v
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	c.Emit("hello")
	<-done
	require.Equal(t, "hello", got)
}

func TestChannel_FIFOOrderingAcrossWaiters(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)
	c := NewChannel[int]()

	// park the receivers one at a time so their registration order is known.
	results := make([]chan int, 2)
	for i := range results {
		results[i] = make(chan int, 1)
		go func() {
			v, err := c.Receive(ctx)
			require.NoError(t, err)
			results[i] <- v
		}()
		time.Sleep(5 * time.Millisecond)
	}
	c.Emit(10)
	c.Emit(20)

	require.Equal(t, 10, <-results[0])
	require.Equal(t, 20, <-results[1])
}

func TestChannel_ReceiveCanceledRemovesWaiter(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)
	c := NewChannel[int]()

	_, _ = Cancelable[int](ctx, func(ctx context.Context) (int, error) {
		results := Interleavedx[int](ctx, []func(context.Context) (int, error){
			func(ctx context.Context) (int, error) {
				return c.Receive(ctx)
			},
			func(ctx context.Context) (int, error) {
				Cancel(ctx)
				return 0, nil
			},
		})
		require.True(t, results[0].IsCancel())
		return 0, nil
	})

	c.Emit(5)
	v, ok := c.TryReceive()
	require.True(t, ok)
	require.Equal(t, 5, v)
}
