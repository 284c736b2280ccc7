package strand

import (
	"errors"
	"fmt"
)

// asClassifier is errors.As without forcing every call site to restate the
// type parameter; target must be a non-nil pointer to an interface type.
func asClassifier(err error, target any) bool {
	return errors.As(err, target)
}

// CancelError is delivered to a pending Await/NoAwait registration when the
// scope it was registered under (or an ancestor of it) is canceled.
type CancelError struct {
	// Scope is the scope that was canceled, triggering this outcome.
	Scope Scope
}

func (e *CancelError) Error() string {
	return fmt.Sprintf("strand: canceled (scope %s)", e.Scope)
}

// IsCancel always reports true; present so CancelError satisfies the
// cancelClassifier interface used by [IsCancel].
func (e *CancelError) IsCancel() bool { return true }

// Is reports whether target is also a *CancelError, regardless of which
// scope either carries -- callers that just want to know "was this a
// cancellation" should prefer [IsCancel], but errors.Is(err, new(CancelError))
// works too, the same way the teacher's AggregateError.Is matches any
// instance of its own type.
func (e *CancelError) Is(target error) bool {
	_, ok := target.(*CancelError)
	return ok
}

// NewCancelError constructs the outcome delivered by a scope cancellation.
func NewCancelError(scope Scope) *CancelError { return &CancelError{Scope: scope} }

// FinalizeError marks an outcome that should end an enclosing [Interleavedx]
// group early, canceling every strand still pending. Any error can opt into
// this behavior by embedding FinalizeError or implementing IsFinalize()
// bool; strandrt only constructs this one directly.
type FinalizeError struct {
	// Cause is the underlying reason this strand wants to finalize the
	// group; may be nil for a plain "stop here" signal.
	Cause error
}

func (e *FinalizeError) Error() string {
	if e.Cause == nil {
		return "strand: finalize"
	}
	return fmt.Sprintf("strand: finalize: %s", e.Cause)
}

func (e *FinalizeError) Unwrap() error { return e.Cause }

// IsFinalize always reports true.
func (e *FinalizeError) IsFinalize() bool { return true }

// PromiseAlreadyResolvedError is returned by [Promise.Resolve] on every call
// after the first; Value holds the value the promise actually settled with.
type PromiseAlreadyResolvedError struct {
	Value any
}

func (e *PromiseAlreadyResolvedError) Error() string {
	return "strand: promise already resolved"
}

// Is reports whether target is also a *PromiseAlreadyResolvedError,
// regardless of which value either carries.
func (e *PromiseAlreadyResolvedError) Is(target error) bool {
	_, ok := target.(*PromiseAlreadyResolvedError)
	return ok
}

// TimeoutError is the error [Timeout] returns when its deadline elapses
// before the wrapped action completes.
type TimeoutError struct {
	// Duration is the deadline that elapsed, for diagnostics.
	Duration any
}

func (e *TimeoutError) Error() string { return "strand: timeout" }

// Is reports whether target is also a *TimeoutError, regardless of
// duration.
func (e *TimeoutError) Is(target error) bool {
	_, ok := target.(*TimeoutError)
	return ok
}

// PanicError wraps a recovered panic value, preserving it through the
// Try[T]/error plumbing so callers can still inspect the original value via
// errors.As.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("strand: panic: %v", e.Value) }

// Unwrap returns the panic value itself when it is an error, so
// errors.Is/errors.As can see through a recovered panic the same way the
// teacher's own PanicError.Unwrap does. Returns nil if the panic value
// was not an error (e.g. a string).
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return &PanicError{Value: err}
	}
	return &PanicError{Value: r}
}

// InvariantViolationError marks a call into [AsyncIONoExn] whose function
// panicked; per the runtime's contract, that function must never fail, so
// this is treated as a programmer error and re-panicked rather than
// delivered as an ordinary outcome.
type InvariantViolationError struct {
	Op    string
	Cause any
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("strand: invariant violated in %s: %v", e.Op, e.Cause)
}

// Unwrap returns the recovered cause when it is itself an error, mirroring
// [PanicError.Unwrap].
func (e *InvariantViolationError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// ErrLoopAlreadyRunning is returned by [Loop.Run] if the loop is not in its
// initial, awake state.
var ErrLoopAlreadyRunning = errors.New("strand: loop already running")

// ErrLoopClosed names a Loop that has already terminated. No Loop method
// currently returns it: [Loop.Run] on a terminated loop returns
// [ErrLoopAlreadyRunning].
var ErrLoopClosed = errors.New("strand: loop closed")
