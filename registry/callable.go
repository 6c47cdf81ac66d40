package registry

import (
	"context"

	"github.com/agentry-ai/agentry/schema"
)

// Mode distinguishes what kind of work a callable performs. The distinction
// is advisory metadata for logging and presentation; dispatch treats both the
// same way.
type Mode string

const (
	// ModeTool marks a deterministic operation such as a file write or a
	// shell command.
	ModeTool Mode = "tool"

	// ModeTask marks an agentic operation whose implementation consults a
	// model itself, for example delegation to a child entity.
	ModeTask Mode = "task"
)

// Handler is the implementation behind a callable. The receiver is the entity
// instance the operation was built for; handlers type-assert it to whatever
// surface they need. Arguments have already passed schema validation and all
// before-transforms when a handler runs.
type Handler func(ctx context.Context, recv any, args map[string]any) (any, error)

// Callable describes one method exposed to the model. Values are declared at
// startup, validated by Registry.Register and immutable afterwards.
type Callable struct {
	// Kind is the entity type the callable is declared on.
	Kind *Kind

	// Method names the implementing method on the entity. It keys the
	// before/after chains together with Kind; an override on a subtype
	// therefore starts with fresh chains. Defaults to Name when empty.
	Method string

	// Name is the external name the model invokes. Unique per Kind; across
	// an ancestry the most derived declaration wins.
	Name string

	// Description tells the model what the operation does and when to use it.
	Description string

	// Schema declares and validates the operation's input. Defaults to
	// schema.Empty when nil.
	Schema *schema.Schema

	// Mode is advisory operation metadata. Defaults to ModeTool when empty.
	Mode Mode

	// Handler runs the underlying method.
	Handler Handler
}

// Ref returns the chain key for the callable's method implementation.
func (c Callable) Ref() MethodRef {
	return MethodRef{Kind: c.Kind, Method: c.Method}
}

// MethodRef identifies one method implementation for chain attachment. Two
// callables share chains exactly when they share a MethodRef, which is how an
// inherited, unoverridden method keeps the transforms declared on its parent.
type MethodRef struct {
	Kind   *Kind
	Method string
}

// String implements fmt.Stringer.
func (r MethodRef) String() string {
	if r.Kind == nil {
		return "?." + r.Method
	}
	return r.Kind.Name() + "." + r.Method
}
