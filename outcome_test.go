package strand

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTry_Classification(t *testing.T) {
	ok := Ok(42)
	require.False(t, ok.IsExn())
	require.False(t, ok.IsCancel())
	require.False(t, ok.IsFinalize())
	v, err := ok.Unwrap()
	require.Equal(t, 42, v)
	require.NoError(t, err)

	plain := Exn[int](errors.New("boom"))
	require.True(t, plain.IsExn())
	require.False(t, plain.IsCancel())
	require.False(t, plain.IsFinalize())

	cancel := Exn[int](NewCancelError(RootScope().Child(1)))
	require.True(t, cancel.IsExn())
	require.True(t, cancel.IsCancel())
	require.False(t, cancel.IsFinalize())

	finalize := Exn[int](&FinalizeError{Cause: errors.New("found it")})
	require.True(t, finalize.IsExn())
	require.True(t, finalize.IsFinalize())
	require.False(t, finalize.IsCancel())
}

func TestCancelError_WrappedClassification(t *testing.T) {
	wrapped := errors.New("wrapper")
	_ = wrapped
	err := fmtWrap(NewCancelError(RootScope()))
	require.True(t, IsCancel(err))
}

// fmtWrap wraps cause in a minimal error type with an Unwrap method, so
// classification has to see through one level of wrapping via errors.As.
func fmtWrap(cause error) error {
	return &wrapError{cause: cause}
}

type wrapError struct{ cause error }

func (e *wrapError) Error() string { return "wrapped: " + e.cause.Error() }
func (e *wrapError) Unwrap() error { return e.cause }
