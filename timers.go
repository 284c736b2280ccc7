package strand

import (
	"context"
	"time"
)

// Wait suspends the current strand for at least d, backed by the Driver's
// Host timer, returning a non-nil error if the enclosing scope is canceled
// before the timer fires (in which case the timer is cleared via
// Host.ClearTimeout). Callers are expected to propagate that error the same
// way any other Go function's error return is propagated.
func Wait(ctx context.Context, d time.Duration) error {
	host := HostOf(ctx)
	ms := int(d.Milliseconds())
	res := Await[struct{}](ctx, func(cb func(Try[struct{}], bool)) func() {
		id := host.SetTimeout(func() { cb(Ok(struct{}{}), true) }, ms)
		return func() { host.ClearTimeout(id) }
	})
	return res.Err
}

// Yield suspends the current strand until the next loop tick, giving other
// ready work a chance to run first, returning a non-nil error if the
// enclosing scope is canceled in the meantime.
func Yield(ctx context.Context) error {
	host := HostOf(ctx)
	res := Await[struct{}](ctx, func(cb func(Try[struct{}], bool)) func() {
		id := host.SetTimeout(func() { cb(Ok(struct{}{}), true) }, 0)
		return func() { host.ClearTimeout(id) }
	})
	return res.Err
}
