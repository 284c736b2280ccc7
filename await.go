package strand

import (
	"context"
	"sync"
	"sync/atomic"
)

// SetupFunc registers a host-driven asynchronous operation: it is handed a
// callback to invoke when (and, for streaming uses, however many times)
// the operation produces a result, and it returns an optional cleanup. The
// cleanup runs when the terminal delivery is an error outcome: a scope
// cancellation before the operation settles, or an error delivered by the
// operation itself.
//
// cb's done argument is true for a terminal delivery (the normal case) and
// false for an intermediate, streaming delivery -- used internally by
// [AwaitToChannel] to forward host events as they arrive rather than only
// the last one.
type SetupFunc[T any] func(cb func(res Try[T], done bool)) (cleanup func())

// Await suspends until setup's callback fires with a terminal result,
// returning that result. If the enclosing scope is canceled first, Await
// returns a [CancelError] outcome and setup's cleanup (if any) is invoked.
//
// Await must be called with a context derived from [NewContext] (directly
// or through a [Cancelable]/[Interleavedx] descendant).
func Await[T any](ctx context.Context, setup SetupFunc[T]) Try[T] {
	resultCh := make(chan Try[T], 1)
	var sent atomic.Bool
	NoAwait(ctx, setup, func(res Try[T]) {
		if sent.CompareAndSwap(false, true) {
			resultCh <- res
		}
	})
	if hook := suspendHookFrom(ctx); hook != nil {
		select {
		case res := <-resultCh:
			return res
		default:
			hook()
			return <-resultCh
		}
	}
	return <-resultCh
}

// NoAwait registers setup the same way [Await] does, but returns to the
// caller immediately rather than blocking; f is invoked (possibly more than
// once, for a streaming setup) whenever setup's callback fires.
func NoAwait[T any](ctx context.Context, setup SetupFunc[T], f func(res Try[T])) {
	d := driverFrom(ctx)
	parent := scopeFrom(ctx)
	id := d.nextFrameID()
	cscope := parent.Child(id)
	d.registry.reserve(id, cscope)

	// teardown is written by the goroutine running setup and read by whichever
	// goroutine delivers the terminal outcome (possibly one calling Cancel).
	var teardownMu sync.Mutex
	var teardown func()

	cb := func(res Try[T], done bool) {
		if done {
			if !d.registry.remove(id) {
				return
			}
			if res.IsExn() {
				teardownMu.Lock()
				td := teardown
				teardownMu.Unlock()
				safeCall(td)
			}
			f(res)
			return
		}
		if !d.registry.isLive(id) {
			return
		}
		f(res)
	}

	notifyCancel := func() {
		cb(Exn[T](NewCancelError(cscope)), true)
	}
	d.registry.setNotify(id, notifyCancel)

	func() {
		defer func() {
			if r := recover(); r != nil {
				cb(Exn[T](panicToError(r)), true)
			}
		}()
		td := setup(cb)
		teardownMu.Lock()
		teardown = td
		teardownMu.Unlock()
	}()
}

func safeCall(fn func()) {
	if fn == nil {
		return
	}
	defer func() { recover() }()
	fn()
}

// Await0 adapts a host callback that signals completion with no value and
// no error.
func Await0(ctx context.Context, arm func(done func()) (cleanup func())) Try[struct{}] {
	return Await[struct{}](ctx, func(cb func(Try[struct{}], bool)) func() {
		return arm(func() { cb(Ok(struct{}{}), true) })
	})
}

// Await1 adapts a host callback that signals completion with a single value
// and no error.
func Await1[T any](ctx context.Context, arm func(done func(T)) (cleanup func())) Try[T] {
	return Await[T](ctx, func(cb func(Try[T], bool)) func() {
		return arm(func(v T) { cb(Ok(v), true) })
	})
}

// AwaitErr0 adapts a host callback that signals completion with an error
// only (nil meaning success).
func AwaitErr0(ctx context.Context, arm func(done func(error)) (cleanup func())) Try[struct{}] {
	return Await[struct{}](ctx, func(cb func(Try[struct{}], bool)) func() {
		return arm(func(err error) {
			if err != nil {
				cb(Exn[struct{}](err), true)
				return
			}
			cb(Ok(struct{}{}), true)
		})
	})
}

// AwaitNodeStyle adapts a Node.js-style (error, value) host callback.
func AwaitNodeStyle[T any](ctx context.Context, arm func(done func(error, T)) (cleanup func())) Try[T] {
	return Await[T](ctx, func(cb func(Try[T], bool)) func() {
		return arm(func(err error, v T) {
			if err != nil {
				cb(Exn[T](err), true)
				return
			}
			cb(Ok(v), true)
		})
	})
}

// AsyncIO runs f in a way that is safe to call from outside the loop
// goroutine (a real blocking file/network call, typically), recovering any
// panic into the returned Try rather than crashing the process. It does not
// itself suspend the caller; pair it with a Promise/channel handoff, or call
// it synchronously before/after the async portion of a larger operation.
func AsyncIO[T any](f func() (T, error)) (result Try[T]) {
	defer func() {
		if r := recover(); r != nil {
			result = Exn[T](panicToError(r))
		}
	}()
	v, err := f()
	if err != nil {
		return Exn[T](err)
	}
	return Ok(v)
}

// AsyncIONoExn is [AsyncIO] for an f that is contractually infallible; a
// panic inside f is therefore treated as a programmer error rather than an
// ordinary outcome, and is re-raised wrapped in [InvariantViolationError].
func AsyncIONoExn[T any](f func() T) T {
	var result T
	func() {
		defer func() {
			if r := recover(); r != nil {
				panic(&InvariantViolationError{Op: "AsyncIONoExn", Cause: r})
			}
		}()
		result = f()
	}()
	return result
}

// AwaitToChannel bridges a streaming SetupFunc (one that may call its
// callback with done=false any number of times before a terminal delivery)
// into a [Channel]: every delivery, intermediate or terminal, successful or
// not, is forwarded onto the returned channel as it arrives. Callers that
// only care about the final outcome should use [Await] directly instead.
func AwaitToChannel[T any](ctx context.Context, setup SetupFunc[T]) *Channel[Try[T]] {
	ch := NewChannel[Try[T]]()
	NoAwait(ctx, setup, func(res Try[T]) {
		ch.Emit(res)
	})
	return ch
}
