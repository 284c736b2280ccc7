package strand

import (
	"fmt"
	"slices"
	"strings"
)

// Scope is an immutable path of frame ids from the root of the scope tree to
// a particular dynamic extent, root first. The empty/nil Scope is the root.
//
// Two scopes are comparable by prefix: s.IsDescendantOf(p) reports whether s
// is p itself or nested somewhere underneath it. Canceling a scope tears
// down every pending registration whose scope satisfies that relation.
type Scope []uint64

// RootScope returns the top-level scope of a fresh Driver.
func RootScope() Scope { return nil }

// Child derives a new scope nested one frame below s, identified by id. id
// is expected to come from [Driver.nextFrameID], which guarantees uniqueness
// within a single Driver.
func (s Scope) Child(id uint64) Scope {
	out := make(Scope, len(s)+1)
	copy(out, s)
	out[len(s)] = id
	return out
}

// Equal reports whether s and other name the exact same scope.
func (s Scope) Equal(other Scope) bool {
	return slices.Equal(s, other)
}

// IsDescendantOf reports whether s is ancestor itself, or nested underneath
// it. A cancellation of ancestor reaches every pending registration whose
// scope satisfies this relation.
func (s Scope) IsDescendantOf(ancestor Scope) bool {
	if len(ancestor) > len(s) {
		return false
	}
	for i, v := range ancestor {
		if s[i] != v {
			return false
		}
	}
	return true
}

// String renders the scope as a dotted path of frame ids, e.g. "1.4.2".
func (s Scope) String() string {
	if len(s) == 0 {
		return "root"
	}
	var b strings.Builder
	for i, id := range s {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}
