package strand

import "sync/atomic"

// Driver is the runtime's single source of scheduling state: a Host (the
// event loop), a registry of pending asynchronous registrations, and a
// frame-id counter used to derive child scopes. A program normally creates
// exactly one Driver and threads it through a [context.Context] via
// [NewContext].
type Driver struct {
	host     Host
	logger   Logger
	registry *registry
	frameID  atomic.Uint64
	opts     driverOptions
}

// NewDriver builds a Driver bound to host, the event loop that will carry
// its timers and posted tasks.
func NewDriver(host Host, opts ...DriverOption) *Driver {
	d := &Driver{
		host:     host,
		registry: newRegistry(),
		opts:     resolveDriverOptions(opts),
	}
	d.logger = d.opts.logger
	if d.logger == nil {
		d.logger = NewDefaultLogger()
	}
	return d
}

// Logger returns the Driver's configured structured logger.
func (d *Driver) Logger() Logger { return d.logger }

// Host returns the event loop the Driver dispatches onto.
func (d *Driver) Host() Host { return d.host }

func (d *Driver) nextFrameID() uint64 { return d.frameID.Add(1) }

// cancelScope tears down every pending registration whose scope is scope or
// a descendant of it, delivering a [CancelError] to each exactly once. It is
// the engine behind the zero-argument [Cancel] surface primitive.
func (d *Driver) cancelScope(scope Scope) {
	for _, notify := range d.registry.liveUnder(scope) {
		notify()
	}
	d.registry.compact()
}
