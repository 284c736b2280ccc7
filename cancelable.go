package strand

import (
	"context"
	"time"
)

// Cancelable runs action under a fresh child scope, guaranteeing that every
// Await/NoAwait registration action (or anything it calls) makes is torn
// down -- exactly once each -- no matter how action exits: normal return,
// error return, or panic. This is the runtime's sole scope-introduction
// primitive; every other scoped-cancellation behavior ([Cancel], [FirstOf],
// [Timeout], [Interleavedx]'s finalize sweep) is built on top of it.
func Cancelable[T any](ctx context.Context, action func(context.Context) (T, error)) (result T, err error) {
	d := driverFrom(ctx)
	parent := scopeFrom(ctx)
	cid := d.nextFrameID()
	childScope := parent.Child(cid)
	childCtx := withScope(ctx, childScope)

	defer func() {
		r := recover()
		d.cancelScope(childScope)
		if r != nil {
			panic(r)
		}
	}()

	return action(childCtx)
}

// CancelableVoid is [Cancelable] for an action with no meaningful return
// value.
func CancelableVoid(ctx context.Context, action func(context.Context)) {
	_, _ = Cancelable[struct{}](ctx, func(ctx context.Context) (struct{}, error) {
		action(ctx)
		return struct{}{}, nil
	})
}

// Cancel tears down the nearest enclosing [Cancelable] scope (every
// Await/NoAwait registration made since it was entered, including by other
// strands sharing that scope via [Interleavedx]), delivering a
// [CancelError] to each. Calling Cancel at the root scope (outside any
// Cancelable) tears down every pending registration for the whole Driver.
func Cancel(ctx context.Context) {
	d := driverFrom(ctx)
	d.cancelScope(scopeFrom(ctx))
}

// FirstOf runs a and b concurrently and returns whichever completes first;
// the other is canceled (via [Cancel]) and its outcome discarded.
func FirstOf[T any](ctx context.Context, a, b func(context.Context) (T, error)) (T, error) {
	wrap := func(fn func(context.Context) (T, error)) func(context.Context) (T, error) {
		return func(ctx context.Context) (T, error) {
			defer Cancel(ctx)
			return fn(ctx)
		}
	}
	return Cancelable[T](ctx, func(ctx context.Context) (T, error) {
		outcomes := Interleavedx[T](ctx, []func(context.Context) (T, error){wrap(a), wrap(b)})
		return firstNonCancel(outcomes)
	})
}

func firstNonCancel[T any](outcomes []Try[T]) (T, error) {
	for _, o := range outcomes {
		if !o.IsCancel() {
			return o.Value, o.Err
		}
	}
	return outcomes[0].Value, outcomes[0].Err
}

// Timeout runs action under a deadline: if dur elapses before action
// completes, action is canceled and Timeout returns the zero value and a
// *[TimeoutError]; otherwise it returns action's own (value, error).
func Timeout[T any](ctx context.Context, dur time.Duration, action func(context.Context) (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	r, _ := FirstOf[outcome](ctx,
		func(ctx context.Context) (outcome, error) {
			if err := Wait(ctx, dur); err != nil {
				return outcome{}, err
			}
			return outcome{err: &TimeoutError{Duration: dur}}, nil
		},
		func(ctx context.Context) (outcome, error) {
			v, err := action(ctx)
			return outcome{v: v, err: err}, nil
		},
	)
	return r.v, r.err
}
