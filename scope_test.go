package strand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScope_ChildAndDescendant(t *testing.T) {
	root := RootScope()
	require.True(t, root.IsDescendantOf(root))

	a := root.Child(1)
	b := a.Child(2)
	sibling := root.Child(3)

	require.True(t, a.IsDescendantOf(root))
	require.True(t, b.IsDescendantOf(root))
	require.True(t, b.IsDescendantOf(a))
	require.False(t, a.IsDescendantOf(b))
	require.False(t, sibling.IsDescendantOf(a))
	require.True(t, sibling.IsDescendantOf(root))
}

func TestScope_Equal(t *testing.T) {
	a := RootScope().Child(1).Child(2)
	b := RootScope().Child(1).Child(2)
	c := RootScope().Child(1).Child(3)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestScope_String(t *testing.T) {
	require.Equal(t, "root", RootScope().String())
	require.Equal(t, "1.2", RootScope().Child(1).Child(2).String())
}
