package strand

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestYield_ResumesOnNextTick(t *testing.T) {
	d, host := newTestDriver()
	ctx := NewContext(context.Background(), d)

	done := make(chan struct{})
	go func() {
		require.NoError(t, Yield(ctx))
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	host.RunPending()
	<-done
}

func TestWait_CanceledByEnclosingScope(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)

	_, err := Cancelable[int](ctx, func(ctx context.Context) (int, error) {
		outcomes := Interleavedx[int](ctx, []func(context.Context) (int, error){
			func(ctx context.Context) (int, error) {
				err := Wait(ctx, time.Hour)
				return 0, err
			},
			func(ctx context.Context) (int, error) {
				Cancel(ctx)
				return 1, nil
			},
		})
		require.True(t, outcomes[0].IsCancel())
		require.True(t, IsCancel(outcomes[0].Err))
		return 0, nil
	})
	require.NoError(t, err)
}
