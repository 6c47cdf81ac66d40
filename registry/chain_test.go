package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- ChainStore Tests --------------------

func taggingBefore(tags *[]string, tag string) BeforeFunc {
	return func(_ context.Context, _ any, args map[string]any) (map[string]any, error) {
		*tags = append(*tags, tag)
		return args, nil
	}
}

func TestChainStore_EmptyByDefault(t *testing.T) {
	store := NewChainStore()
	ref := MethodRef{Kind: NewKind("widget", nil), Method: "run"}

	assert.Empty(t, store.Before(ref))
	assert.Empty(t, store.After(ref))
}

func TestChainStore_PreservesAttachmentOrder(t *testing.T) {
	store := NewChainStore()
	ref := MethodRef{Kind: NewKind("widget", nil), Method: "run"}

	var tags []string
	store.AddBefore(ref, taggingBefore(&tags, "b1"))
	store.AddBefore(ref, taggingBefore(&tags, "b2"))
	store.AddBefore(ref, taggingBefore(&tags, "b3"))

	chain := store.Before(ref)
	require.Len(t, chain, 3)
	for _, fn := range chain {
		_, err := fn(context.Background(), nil, map[string]any{})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"b1", "b2", "b3"}, tags)
}

func TestChainStore_KeyedPerMethodRef(t *testing.T) {
	store := NewChainStore()
	a := NewKind("a", nil)
	b := NewKind("b", a)

	store.AddBefore(MethodRef{Kind: a, Method: "run"}, taggingBefore(new([]string), "x"))

	// Same method name on a different kind is a different chain.
	assert.Len(t, store.Before(MethodRef{Kind: a, Method: "run"}), 1)
	assert.Empty(t, store.Before(MethodRef{Kind: b, Method: "run"}))

	// An inherited, unoverridden method resolves through the parent's ref
	// and therefore sees the parent's chain.
	inherited := Callable{Kind: a, Method: "run", Name: "run", Handler: okHandler}
	assert.Len(t, store.Before(inherited.Ref()), 1)
}

func TestChainStore_ReturnsCopies(t *testing.T) {
	store := NewChainStore()
	ref := MethodRef{Kind: NewKind("widget", nil), Method: "run"}
	store.AddBefore(ref, taggingBefore(new([]string), "b1"))

	chain := store.Before(ref)
	chain[0] = nil
	_ = append(chain, taggingBefore(new([]string), "b2"))

	fresh := store.Before(ref)
	require.Len(t, fresh, 1)
	assert.NotNil(t, fresh[0])
}

func TestChainStore_AfterSideIsIndependent(t *testing.T) {
	store := NewChainStore()
	ref := MethodRef{Kind: NewKind("widget", nil), Method: "run"}

	store.AddAfter(ref, func(_ context.Context, _ any, result any) (any, error) {
		return result, nil
	})

	assert.Empty(t, store.Before(ref))
	assert.Len(t, store.After(ref), 1)
}

func TestRegistry_OwnsChainStore(t *testing.T) {
	reg := New()
	require.NotNil(t, reg.Chains())
	assert.Same(t, reg.Chains(), reg.Chains())
}
