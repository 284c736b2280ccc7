package strand

import "context"

// strandMsg carries one strand's terminal outcome back to the driving loop
// in [interleavedRaw].
type strandMsg struct {
	idx int
	res Try[any]
}

// interleavedRaw is the untyped engine behind [Interleavedx] and
// [Interleaved2]: it runs each action as its own goroutine (a native task
// scheduler substituting for the single-loop resumption-channel design,
// which the design notes explicitly sanction -- see Design Notes in
// SPEC_FULL.md), preserving two externally observable properties the
// effect-handler original guarantees: (1) strands are started left-to-right,
// each one's synchronous prefix running before the next strand starts, and
// (2) as soon as any strand's outcome is a finalize signal, the group is
// swept with one Cancel call.
func interleavedRaw(ctx context.Context, actions []func(context.Context) (any, error)) []Try[any] {
	n := len(actions)
	results := make([]Try[any], n)
	if n == 0 {
		return results
	}

	msgs := make(chan strandMsg, n)

	for i, action := range actions {
		i, action := i, action
		started := make(chan struct{})
		go func() {
			var signaled boolOnce
			signal := func() { signaled.Do(func() { started <- struct{}{} }) }
			strandCtx := withSuspendHook(ctx, signal)
			v, err := action(strandCtx)
			signal()
			msgs <- strandMsg{idx: i, res: Try[any]{Value: v, Err: err}}
		}()
		<-started
	}

	remaining := n
	finalized := false
	for remaining > 0 {
		m := <-msgs
		results[m.idx] = m.res
		remaining--
		if !finalized && m.res.IsFinalize() {
			finalized = true
			Cancel(ctx)
		}
	}
	return results
}

// boolOnce is a single-goroutine-safe "run this closure only on the first
// call" latch; sync.Once is safe for this too, but every call site here is
// already single-writer (one goroutine owns the signal closure) so a plain
// bool suffices and avoids an extra allocation per strand.
type boolOnce struct{ done bool }

func (b *boolOnce) Do(f func()) {
	if b.done {
		return
	}
	b.done = true
	f()
}

// Interleavedx runs every action in actions concurrently, sharing the
// current scope, and returns each one's outcome in the same order actions
// were given. If any outcome is a finalize signal (see [FinalizeError]),
// every strand still pending is canceled before Interleavedx returns.
func Interleavedx[T any](ctx context.Context, actions []func(context.Context) (T, error)) []Try[T] {
	raw := make([]func(context.Context) (any, error), len(actions))
	for i, a := range actions {
		a := a
		raw[i] = func(ctx context.Context) (any, error) { return a(ctx) }
	}
	out := interleavedRaw(ctx, raw)
	results := make([]Try[T], len(out))
	for i, o := range out {
		if o.Err != nil {
			results[i] = Exn[T](o.Err)
			continue
		}
		v, _ := o.Value.(T)
		results[i] = Ok(v)
	}
	return results
}

// Interleaved2 is [Interleavedx] for exactly two, differently typed,
// actions, with the "most significant error wins" dominance rule from
// orderedThrow applied to the combined result.
func Interleaved2[A, B any](ctx context.Context, a func(context.Context) (A, error), b func(context.Context) (B, error)) (A, B, error) {
	raw := []func(context.Context) (any, error){
		func(ctx context.Context) (any, error) { return a(ctx) },
		func(ctx context.Context) (any, error) { return b(ctx) },
	}
	out := interleavedRaw(ctx, raw)
	var za A
	var zb B
	av, _ := out[0].Value.(A)
	bv, _ := out[1].Value.(B)
	err := orderedThrow(out)
	if err != nil {
		return za, zb, err
	}
	return av, bv, nil
}

// InterleavedN is [Interleavedx] plus the exception-dominance rule: it
// returns every value plus a single combined error, rather than one Try per
// strand.
func InterleavedN[T any](ctx context.Context, actions []func(context.Context) (T, error)) ([]T, error) {
	outcomes := Interleavedx[T](ctx, actions)
	values := make([]T, len(outcomes))
	raw := make([]Try[any], len(outcomes))
	for i, o := range outcomes {
		values[i] = o.Value
		raw[i] = Try[any]{Value: o.Value, Err: o.Err}
	}
	return values, orderedThrow(raw)
}

// orderedThrow scans outcomes left to right and returns the single most
// significant error, implementing the exception-dominance rule: a later
// finalize beats an earlier non-finalize error, and a later non-cancel
// error beats an earlier cancel (since a cancel is usually just fallout
// from some other strand's finalize/error, not the interesting failure).
// Returns nil if no outcome errored.
func orderedThrow(outcomes []Try[any]) error {
	var current error
	have := false
	for _, o := range outcomes {
		if o.Err == nil {
			continue
		}
		if !have {
			current = o.Err
			have = true
			continue
		}
		curFinalize := IsFinalize(current)
		nextFinalize := IsFinalize(o.Err)
		curCancel := IsCancel(current)
		nextCancel := IsCancel(o.Err)
		if nextFinalize && !curFinalize {
			current = o.Err
		} else if curCancel && !nextCancel {
			current = o.Err
		}
	}
	return current
}
