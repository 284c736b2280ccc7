// Package strand implements a structured, single-threaded asynchronous
// runtime: one-shot promises, FIFO rendezvous channels, interleaved strands
// multiplexed over a single host event loop, and tree-structured scoped
// cancellation.
//
// # Architecture
//
// A [Driver] owns a [Host] (the event loop: timers plus a task queue) and a
// registry of pending asynchronous operations. All asynchronous primitives
// -- [Await], [NoAwait], [Promise], [Channel], [Interleavedx], [Cancelable]
// -- are built on top of the Driver's registry and a single low-level
// suspension primitive, [Await]. A [context.Context] carries the current
// [Scope] and the owning Driver; every exported operation that can suspend
// or register cleanup takes a context.Context as its first argument.
//
// # Thread Safety
//
// Exactly one goroutine is expected to drive a Driver's [Host] (normally via
// [Loop.Run]). Operations that mutate the registry -- Await, NoAwait,
// Cancel -- are safe to call from any goroutine (guarded internally by a
// mutex). A registration's callback runs on whichever goroutine delivers
// it: the Host's goroutine for a timer or posted task, or the goroutine
// that calls Cancel (or leaves a [Cancelable]) for a cancellation. Await
// blocks its calling goroutine and resumes on that same goroutine once the
// callback has fired. [Interleavedx] multiplexes strands across real
// goroutines (an implementation substitution for a single native task
// scheduler), but the resulting values are only ever observed after every
// strand has settled, so no data race is observable to callers.
//
// # Execution Model
//
// Scopes form a tree. Every [Cancelable] block allocates a fresh child
// scope; every pending Await/NoAwait registration is tagged with the scope
// active when it was created. Canceling a scope tears down every
// registration whose scope is that scope or a descendant of it, delivering
// a cancellation outcome to each one exactly once.
//
// # Usage
//
//	loop := strand.NewLoop()
//	driver := strand.NewDriver(loop)
//	ctx := strand.NewContext(context.Background(), driver)
//	go func() {
//		defer loop.Shutdown(context.Background())
//		v, err := strand.Cancelable(ctx, func(ctx context.Context) (int, error) {
//			strand.Wait(ctx, 10*time.Millisecond)
//			return 42, nil
//		})
//		_ = v
//		_ = err
//	}()
//	_ = loop.Run(context.Background())
package strand
