package strand

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPromise_ResolveThenAwait(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)

	p := NewPromise[int]()
	require.NoError(t, p.Resolve(9))

	v, err := p.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, 9, v)
}

func TestPromise_ResolveTwiceFails(t *testing.T) {
	p := NewPromise[int]()
	require.NoError(t, p.Resolve(1))
	err := p.Resolve(2)
	var already *PromiseAlreadyResolvedError
	require.ErrorAs(t, err, &already)
	require.Equal(t, 1, already.Value)
}

// P1/P2: once settled, TryAwait always reports the same value, and
// listeners registered before resolve see it in registration order.
func TestPromise_ListenerOrder(t *testing.T) {
	p := NewPromise[int]()

	var order []int
	p.Then(func(int) { order = append(order, 1) })
	p.Then(func(int) { order = append(order, 2) })
	p.Then(func(int) { order = append(order, 3) })

	require.NoError(t, p.Resolve(100))
	require.Equal(t, []int{1, 2, 3}, order)

	v, ok := p.TryAwait()
	require.True(t, ok)
	require.Equal(t, 100, v)
}

func TestPromise_AwaitBlocksUntilResolve(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)
	p := NewPromise[string]()

	done := make(chan struct{})
	var got string
	go func() {
		v, err := p.Await(ctx)
		require.NoError(t, err)
		got = v
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Await returned before Resolve")
	default:
	}

	require.NoError(t, p.Resolve("ready"))
	<-done
	require.Equal(t, "ready", got)
}

func TestPromise_AwaitCanceledByEnclosingScope(t *testing.T) {
	d, _ := newTestDriver()
	ctx := NewContext(context.Background(), d)
	p := NewPromise[int]()

	_, err := Cancelable[int](ctx, func(ctx context.Context) (int, error) {
		outcomes := Interleavedx[int](ctx, []func(context.Context) (int, error){
			func(ctx context.Context) (int, error) {
				return p.Await(ctx)
			},
			func(ctx context.Context) (int, error) {
				Cancel(ctx)
				return 0, nil
			},
		})
		require.True(t, outcomes[0].IsCancel())
		return 0, nil
	})
	require.NoError(t, err)
}
