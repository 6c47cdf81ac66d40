package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Resolve Tests --------------------

func names(cs []Callable) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestResolve_MergesAncestry(t *testing.T) {
	reg := New()
	parent := NewKind("parent", nil)
	child := NewKind("child", parent)

	require.NoError(t, reg.Register(Callable{Kind: parent, Name: "read", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: parent, Name: "write", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: child, Name: "describe", Handler: okHandler}))

	got := reg.Resolve(child)
	assert.Equal(t, []string{"describe", "read", "write"}, names(got))
}

func TestResolve_FirstOccurrenceWins(t *testing.T) {
	reg := New()
	parent := NewKind("parent", nil)
	child := NewKind("child", parent)

	require.NoError(t, reg.Register(Callable{Kind: parent, Name: "search", Method: "searchAll", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: child, Name: "search", Method: "searchMine", Handler: okHandler}))

	got := reg.Resolve(child)
	require.Len(t, got, 1)
	assert.Equal(t, child, got[0].Kind)
	assert.Equal(t, "searchMine", got[0].Method)

	// The parent still resolves its own declaration.
	fromParent := reg.Resolve(parent)
	require.Len(t, fromParent, 1)
	assert.Equal(t, "searchAll", fromParent[0].Method)
}

func TestResolve_ThreeLevels(t *testing.T) {
	reg := New()
	root := NewKind("root", nil)
	mid := NewKind("mid", root)
	leaf := NewKind("leaf", mid)

	require.NoError(t, reg.Register(Callable{Kind: root, Name: "a", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: root, Name: "b", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: mid, Name: "b", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: mid, Name: "c", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: leaf, Name: "a", Handler: okHandler}))

	got := reg.Resolve(leaf)
	assert.Equal(t, []string{"a", "b", "c"}, names(got))
	assert.Equal(t, leaf, got[0].Kind)
	assert.Equal(t, mid, got[1].Kind)
	assert.Equal(t, mid, got[2].Kind)
}

func TestResolve_UnregisteredKind(t *testing.T) {
	reg := New()
	assert.Empty(t, reg.Resolve(NewKind("nobody", nil)))
	assert.Empty(t, reg.Resolve(nil))
}

func TestResolve_Deterministic(t *testing.T) {
	reg := New()
	parent := NewKind("parent", nil)
	child := NewKind("child", parent)

	require.NoError(t, reg.Register(Callable{Kind: parent, Name: "one", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: child, Name: "two", Handler: okHandler}))

	first := names(reg.Resolve(child))
	second := names(reg.Resolve(child))
	assert.Equal(t, first, second)
}
