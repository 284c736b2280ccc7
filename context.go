package strand

import "context"

type ctxKey int

const (
	ctxKeyDriver ctxKey = iota
	ctxKeyScope
	ctxKeySuspendHook
)

// NewContext attaches d to ctx as the active Driver, with the root Scope.
// Every operation in this package that takes a context.Context expects it to
// have been derived, directly or indirectly, from a context built this way.
func NewContext(ctx context.Context, d *Driver) context.Context {
	ctx = context.WithValue(ctx, ctxKeyDriver, d)
	ctx = context.WithValue(ctx, ctxKeyScope, RootScope())
	return ctx
}

func driverFrom(ctx context.Context) *Driver {
	d, _ := ctx.Value(ctxKeyDriver).(*Driver)
	if d == nil {
		panic("strand: context has no Driver; derive it from strand.NewContext")
	}
	return d
}

func scopeFrom(ctx context.Context) Scope {
	s, _ := ctx.Value(ctxKeyScope).(Scope)
	return s
}

func withScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKeyScope, s)
}

// suspendHookFrom returns the hook installed by [Interleavedx] to detect the
// first suspension point of a strand, preserving left-to-right start order.
// Outside of an interleaved group this is nil.
func suspendHookFrom(ctx context.Context) func() {
	hook, _ := ctx.Value(ctxKeySuspendHook).(func())
	return hook
}

func withSuspendHook(ctx context.Context, hook func()) context.Context {
	return context.WithValue(ctx, ctxKeySuspendHook, hook)
}

// HostOf returns the Host backing ctx's Driver, for code that needs to reach
// the event loop directly (e.g. custom await adapters).
func HostOf(ctx context.Context) Host {
	return driverFrom(ctx).host
}
