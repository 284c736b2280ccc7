package strand

import (
	"context"
	"sync"
)

// Promise is a one-shot, multi-listener value: it settles at most once, and
// every [Promise.Await] call -- whether it arrives before or after
// settlement -- observes the same value. Unlike the teacher's JS-interop
// promise type, this one is generic: there is exactly one concrete Go type
// per payload type, not a single any-typed Result threaded through runtime
// type assertions.
type Promise[T any] struct {
	mu        sync.Mutex
	resolved  bool
	value     T
	listeners []func(T)
}

// NewPromise builds an unresolved Promise.
func NewPromise[T any]() *Promise[T] { return &Promise[T]{} }

// Resolved builds an already-settled Promise, useful for tests and for
// adapting a value that is already known into the Promise interface.
func Resolved[T any](v T) *Promise[T] {
	return &Promise[T]{resolved: true, value: v}
}

// TryAwait returns the promise's value and true if it has already settled,
// or the zero value and false otherwise. It never suspends.
func (p *Promise[T]) TryAwait() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.resolved
}

// Resolve settles the promise with v, notifying every pending and future
// listener. Calling Resolve on an already-settled promise returns
// [PromiseAlreadyResolvedError] and otherwise has no effect -- the first
// call always wins.
func (p *Promise[T]) Resolve(v T) error {
	p.mu.Lock()
	if p.resolved {
		existing := p.value
		p.mu.Unlock()
		return &PromiseAlreadyResolvedError{Value: existing}
	}
	p.resolved = true
	p.value = v
	listeners := p.listeners
	p.listeners = nil
	p.mu.Unlock()

	for _, l := range listeners {
		l(v)
	}
	return nil
}

// Await suspends until the promise settles (or returns immediately if it
// already has), returning its value. The only way this returns a non-nil
// error is if the enclosing scope is canceled before the promise settles --
// a settled Promise always carries a value, never an error.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	if v, ok := p.TryAwait(); ok {
		return v, nil
	}
	res := Await[T](ctx, func(cb func(Try[T], bool)) func() {
		p.mu.Lock()
		if p.resolved {
			v := p.value
			p.mu.Unlock()
			cb(Ok(v), true)
			return nil
		}
		p.listeners = append(p.listeners, func(v T) { cb(Ok(v), true) })
		p.mu.Unlock()
		return nil
	})
	return res.Unwrap()
}

// Then registers f to run with the promise's value once it settles, without
// suspending the caller. If the promise has already settled, f runs
// synchronously before Then returns.
func (p *Promise[T]) Then(f func(T)) {
	p.mu.Lock()
	if p.resolved {
		v := p.value
		p.mu.Unlock()
		f(v)
		return
	}
	p.listeners = append(p.listeners, f)
	p.mu.Unlock()
}
