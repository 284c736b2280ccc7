package strand

// TimerID identifies a scheduled timer, returned by [Host.SetTimeout] and
// accepted by [Host.ClearTimeout]. It is an alias of uint64, so a Host
// implementation outside this package can satisfy [Host] without importing it.
type TimerID = uint64

// Host is the runtime's view of its event loop: timers and a way to post a
// callback for execution on the loop's own goroutine. Everything else in
// this package -- promises, channels, interleaved strands, scoped
// cancellation -- is built on top of these three operations plus the
// registry; real network/file I/O is always reached through a generic
// callback-taking thunk ([AsyncIO]) rather than a dedicated Host method,
// matching the spec's explicit non-goal of owning a transport stack.
//
// Implementations must be safe for concurrent use: SetTimeout/ClearTimeout
// may be called from any goroutine (e.g. a background worker resolving a
// promise), but the callbacks they carry must always run on the Host's own
// single dispatch goroutine.
type Host interface {
	// SetTimeout schedules cb to run after at least ms milliseconds have
	// elapsed, returning an id that can later be passed to ClearTimeout.
	// ms <= 0 schedules cb for the next available tick.
	SetTimeout(cb func(), ms int) TimerID

	// ClearTimeout cancels a pending timer. Clearing an id that has already
	// fired or been cleared is a no-op.
	ClearTimeout(id TimerID)

	// Post schedules cb to run on the Host's dispatch goroutine as soon as
	// possible, ahead of any still-pending timers with a positive delay.
	Post(cb func())
}
