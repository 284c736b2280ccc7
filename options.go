package strand

import "time"

// DriverOption configures a [Driver] built by [NewDriver].
type DriverOption interface{ applyDriver(*driverOptions) }

type driverOptions struct {
	logger Logger
}

type driverOptionFunc func(*driverOptions)

func (f driverOptionFunc) applyDriver(o *driverOptions) { f(o) }

// WithLogger overrides the Driver's default structured logger.
func WithLogger(l Logger) DriverOption {
	return driverOptionFunc(func(o *driverOptions) { o.logger = l })
}

func resolveDriverOptions(opts []DriverOption) driverOptions {
	var o driverOptions
	for _, opt := range opts {
		opt.applyDriver(&o)
	}
	return o
}

// LoopOption configures a [Loop] built by [NewLoop].
type LoopOption interface{ applyLoop(*loopOptions) }

type loopOptions struct {
	logger       Logger
	metrics      bool
	tickInterval time.Duration
}

type loopOptionFunc func(*loopOptions)

func (f loopOptionFunc) applyLoop(o *loopOptions) { f(o) }

// WithLoopLogger overrides the Loop's default structured logger, used for
// panic recovery reporting.
func WithLoopLogger(l Logger) LoopOption {
	return loopOptionFunc(func(o *loopOptions) { o.logger = l })
}

// WithLoopMetrics enables dispatch-latency tracking (see [Metrics]).
func WithLoopMetrics(enabled bool) LoopOption {
	return loopOptionFunc(func(o *loopOptions) { o.metrics = enabled })
}

// WithIdleTickInterval bounds how long the loop will sleep when it has no
// due timers and no posted tasks, so a test or host relying on wall-clock
// polling has a predictable upper bound on wake latency. Defaults to 24h
// (effectively "sleep until woken").
func WithIdleTickInterval(d time.Duration) LoopOption {
	return loopOptionFunc(func(o *loopOptions) { o.tickInterval = d })
}

func resolveLoopOptions(opts []LoopOption) loopOptions {
	o := loopOptions{tickInterval: 24 * time.Hour}
	for _, opt := range opts {
		opt.applyLoop(&o)
	}
	return o
}
