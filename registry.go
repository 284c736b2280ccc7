package strand

import "sync"

// registryEntry is the bookkeeping the driver keeps for one pending
// Await/NoAwait registration: the scope it belongs to, and the function to
// call to force it to settle with a cancellation outcome.
type registryEntry struct {
	scope        Scope
	notifyCancel func()
}

// registry tracks every pending asynchronous registration for a Driver,
// keyed by an internally assigned id. It is the single source of truth for
// "is this operation still live" -- both the natural completion path and the
// cancellation path race to remove an entry, and registry.remove is the
// mutex-guarded gate that ensures exactly one of them wins, satisfying the
// "cleanup invoked exactly once, continuation resumed at most once"
// invariants.
type registry struct {
	mu      sync.Mutex
	entries map[uint64]registryEntry
	order   []uint64
}

func newRegistry() *registry {
	return &registry{entries: make(map[uint64]registryEntry)}
}

// reserve inserts a placeholder entry for id under scope. The caller is
// expected to follow up with setNotify once it has built the closure that
// depends on id.
func (r *registry) reserve(id uint64, scope Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = registryEntry{scope: scope}
	r.order = append(r.order, id)
}

func (r *registry) setNotify(id uint64, notify func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.notifyCancel = notify
	r.entries[id] = e
}

// remove deletes id if still present, reporting whether it did. This is the
// single-winner gate between natural completion and cancellation.
func (r *registry) remove(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

func (r *registry) isLive(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

// liveUnder returns the notifyCancel closures for every entry currently
// live under scope, in insertion order. It does not remove them -- each
// notifyCancel, when invoked, re-enters the owning cb and removes its own
// entry via the normal done=true path.
func (r *registry) liveUnder(scope Scope) []func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []func()
	for _, id := range r.order {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		if e.scope.IsDescendantOf(scope) && e.notifyCancel != nil {
			out = append(out, e.notifyCancel)
		}
	}
	return out
}

// compact drops ids that are no longer live from the order slice, bounding
// its growth for long-lived drivers with high registration churn.
func (r *registry) compact() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) < 2*len(r.entries)+16 {
		return
	}
	kept := r.order[:0]
	for _, id := range r.order {
		if _, ok := r.entries[id]; ok {
			kept = append(kept, id)
		}
	}
	r.order = kept
}
