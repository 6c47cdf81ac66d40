package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(_ context.Context, _ any, _ map[string]any) (any, error) {
	return "ok", nil
}

// -------------------- Register Tests --------------------

func TestRegister_RequiresKindNameHandler(t *testing.T) {
	reg := New()
	kind := NewKind("widget", nil)

	err := reg.Register(Callable{Name: "run", Handler: okHandler})
	assert.ErrorContains(t, err, "kind is required")

	err = reg.Register(Callable{Kind: kind, Handler: okHandler})
	assert.ErrorContains(t, err, "name is required")

	err = reg.Register(Callable{Kind: kind, Name: "run"})
	assert.ErrorContains(t, err, "handler is required")
}

func TestRegister_FillsDefaults(t *testing.T) {
	reg := New()
	kind := NewKind("widget", nil)

	require.NoError(t, reg.Register(Callable{Kind: kind, Name: "run", Handler: okHandler}))

	got := reg.Lookup(kind)
	require.Len(t, got, 1)
	assert.Equal(t, "run", got[0].Method)
	assert.Equal(t, ModeTool, got[0].Mode)
	assert.NotNil(t, got[0].Schema)
}

func TestRegister_RejectsDuplicateNameOnSameKind(t *testing.T) {
	reg := New()
	kind := NewKind("widget", nil)

	require.NoError(t, reg.Register(Callable{Kind: kind, Name: "run", Handler: okHandler}))
	err := reg.Register(Callable{Kind: kind, Name: "run", Handler: okHandler})
	assert.ErrorContains(t, err, "already registered")
}

func TestRegister_AllowsSameNameOnDifferentKinds(t *testing.T) {
	reg := New()
	a := NewKind("a", nil)
	b := NewKind("b", nil)

	assert.NoError(t, reg.Register(Callable{Kind: a, Name: "run", Handler: okHandler}))
	assert.NoError(t, reg.Register(Callable{Kind: b, Name: "run", Handler: okHandler}))
}

func TestMustRegister_PanicsOnError(t *testing.T) {
	reg := New()
	assert.Panics(t, func() {
		reg.MustRegister(Callable{Name: "run", Handler: okHandler})
	})
}

// -------------------- Lookup Tests --------------------

func TestLookup_DirectOnly(t *testing.T) {
	reg := New()
	parent := NewKind("parent", nil)
	child := NewKind("child", parent)

	require.NoError(t, reg.Register(Callable{Kind: parent, Name: "inherited", Handler: okHandler}))
	require.NoError(t, reg.Register(Callable{Kind: child, Name: "own", Handler: okHandler}))

	got := reg.Lookup(child)
	require.Len(t, got, 1)
	assert.Equal(t, "own", got[0].Name)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	reg := New()
	kind := NewKind("widget", nil)
	require.NoError(t, reg.Register(Callable{Kind: kind, Name: "run", Handler: okHandler}))

	got := reg.Lookup(kind)
	got[0].Name = "mutated"

	fresh := reg.Lookup(kind)
	assert.Equal(t, "run", fresh[0].Name)
}

func TestLookup_UnknownKindIsEmpty(t *testing.T) {
	reg := New()
	assert.Empty(t, reg.Lookup(NewKind("nobody", nil)))
}

// -------------------- Kind Tests --------------------

func TestKind_Ancestry(t *testing.T) {
	root := NewKind("root", nil)
	mid := NewKind("mid", root)
	leaf := NewKind("leaf", mid)

	assert.Equal(t, []*Kind{leaf, mid, root}, leaf.Ancestry())
	assert.Equal(t, []*Kind{root}, root.Ancestry())
	assert.Equal(t, "leaf", leaf.String())
	assert.Equal(t, mid, leaf.Parent())
}

func TestMethodRef_String(t *testing.T) {
	kind := NewKind("widget", nil)
	ref := MethodRef{Kind: kind, Method: "run"}
	assert.Equal(t, "widget.run", ref.String())
}
