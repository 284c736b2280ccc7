package strand

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/strandrt/internal/goroutineid"
)

// LoopState mirrors the lifecycle a [Loop] moves through: Awake (built but
// not yet running), Running, Terminating (Shutdown requested, draining),
// Terminated (Run has returned).
type LoopState int32

const (
	LoopAwake LoopState = iota
	LoopRunning
	LoopTerminating
	LoopTerminated
)

func (s LoopState) String() string {
	switch s {
	case LoopAwake:
		return "awake"
	case LoopRunning:
		return "running"
	case LoopTerminating:
		return "terminating"
	case LoopTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type timerEntry struct {
	id   TimerID
	when time.Time
	cb   func()
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].id < h[j].id
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(*timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Loop is the default, portable [Host] implementation: a monotonic-clock
// timer heap plus a mutex-guarded task queue, driven from a single goroutine
// by [Loop.Run]. It deliberately does not own any real network/file-descriptor
// polling -- that belongs to whatever external event loop a production host
// embeds this runtime into; see [Host] for why that boundary is drawn here.
type Loop struct {
	mu       sync.Mutex
	timers   timerHeap
	canceled map[TimerID]bool
	extern   []func()
	nextID   atomic.Uint64
	wake     chan struct{}
	state    atomic.Int32
	logger   Logger
	metrics  *Metrics
	opts     loopOptions
	owner    atomic.Uint64
}

// NewLoop builds a Loop in its initial Awake state.
func NewLoop(opts ...LoopOption) *Loop {
	o := resolveLoopOptions(opts)
	l := &Loop{
		canceled: make(map[TimerID]bool),
		wake:     make(chan struct{}, 1),
		logger:   o.logger,
		opts:     o,
	}
	if l.logger == nil {
		l.logger = NewDefaultLogger()
	}
	if o.metrics {
		l.metrics = NewMetrics()
	}
	return l
}

// State reports the loop's current lifecycle state.
func (l *Loop) State() LoopState { return LoopState(l.state.Load()) }

// Metrics returns the loop's dispatch-latency metrics, or nil if
// [WithLoopMetrics] was not enabled.
func (l *Loop) Metrics() *Metrics { return l.metrics }

// OnLoopGoroutine reports whether the calling goroutine is the one
// currently executing [Loop.Run]. Before Run starts, or after it has
// returned, this always reports false.
func (l *Loop) OnLoopGoroutine() bool {
	if LoopState(l.state.Load()) != LoopRunning {
		return false
	}
	return goroutineid.Current() == l.owner.Load()
}

func (l *Loop) SetTimeout(cb func(), ms int) TimerID {
	if ms < 0 {
		ms = 0
	}
	id := TimerID(l.nextID.Add(1))
	l.mu.Lock()
	heap.Push(&l.timers, &timerEntry{id: id, when: time.Now().Add(time.Duration(ms) * time.Millisecond), cb: cb})
	l.mu.Unlock()
	l.wakeup()
	return id
}

func (l *Loop) ClearTimeout(id TimerID) {
	l.mu.Lock()
	l.canceled[id] = true
	l.mu.Unlock()
}

func (l *Loop) Post(cb func()) {
	l.mu.Lock()
	l.extern = append(l.extern, cb)
	l.mu.Unlock()
	l.wakeup()
}

func (l *Loop) wakeup() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drives the loop until ctx is canceled or [Loop.Shutdown] is called.
// It must only be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(LoopAwake), int32(LoopRunning)) {
		return ErrLoopAlreadyRunning
	}
	l.owner.Store(goroutineid.Current())
	defer l.state.Store(int32(LoopTerminated))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if LoopState(l.state.Load()) == LoopTerminating && !l.hasPendingWork() {
			return nil
		}
		start := time.Now()
		ran := l.tick()
		if l.metrics != nil && ran {
			l.metrics.Latency.Record(time.Since(start))
		}
		if ran {
			continue
		}
		if LoopState(l.state.Load()) == LoopTerminating {
			return nil
		}
		d := l.nextDelay()
		timer := time.NewTimer(d)
		select {
		case <-l.wake:
			timer.Stop()
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

func (l *Loop) hasPendingWork() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers) > 0 || len(l.extern) > 0
}

// tick runs every due timer and every queued posted task once, reporting
// whether any work actually ran.
func (l *Loop) tick() bool {
	ran := false
	for {
		l.mu.Lock()
		if len(l.timers) == 0 {
			l.mu.Unlock()
			break
		}
		top := l.timers[0]
		if l.canceled[top.id] {
			heap.Pop(&l.timers)
			delete(l.canceled, top.id)
			l.mu.Unlock()
			continue
		}
		if top.when.After(time.Now()) {
			l.mu.Unlock()
			break
		}
		heap.Pop(&l.timers)
		l.mu.Unlock()
		l.safeCall(top.cb)
		ran = true
	}
	l.mu.Lock()
	batch := l.extern
	l.extern = nil
	l.mu.Unlock()
	for _, task := range batch {
		l.safeCall(task)
		ran = true
	}
	return ran
}

func (l *Loop) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error(nil, "task panicked", "panic", r)
		}
	}()
	fn()
}

func (l *Loop) nextDelay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return l.opts.tickInterval
	}
	d := time.Until(l.timers[0].when)
	if d < 0 {
		return 0
	}
	if d > l.opts.tickInterval {
		return l.opts.tickInterval
	}
	return d
}

// Shutdown requests that Run stop, then wakes it immediately to notice. Run
// keeps dispatching posted tasks and due timers until a pass finds nothing
// ready, then returns; timers that are not yet due at that point never run.
func (l *Loop) Shutdown(ctx context.Context) error {
	l.state.CompareAndSwap(int32(LoopRunning), int32(LoopTerminating))
	l.state.CompareAndSwap(int32(LoopAwake), int32(LoopTerminated))
	l.wakeup()
	return nil
}
