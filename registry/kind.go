package registry

// Kind identifies one entity type inside a Registry. Registration, lookup and
// chain attachment are all keyed by *Kind, so identity is pointer identity:
// declare each Kind exactly once, as a package-level variable, and share the
// pointer between registration code and entity constructors.
//
// A Kind optionally names a parent, forming an explicit, finite ancestry that
// Resolve walks when building an entity's effective callable set.
//
// Example usage:
//
//	var (
//		SearcherKind     = registry.NewKind("searcher", nil)
//		WebSearcherKind  = registry.NewKind("web_searcher", SearcherKind)
//	)
type Kind struct {
	name   string
	parent *Kind
}

// NewKind creates a Kind with the given display name and optional parent.
// Pass nil for root types. The parent link is fixed at construction, which
// rules out ancestry cycles.
func NewKind(name string, parent *Kind) *Kind {
	return &Kind{name: name, parent: parent}
}

// Name returns the display name the Kind was created with.
func (k *Kind) Name() string {
	return k.name
}

// Parent returns the immediate ancestor, or nil for a root Kind.
func (k *Kind) Parent() *Kind {
	return k.parent
}

// Ancestry returns the Kind itself followed by its ancestors, most derived
// first. The slice is freshly allocated on every call.
func (k *Kind) Ancestry() []*Kind {
	var out []*Kind
	for cur := k; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

// String implements fmt.Stringer.
func (k *Kind) String() string {
	return k.name
}
