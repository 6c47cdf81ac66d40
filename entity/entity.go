package entity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentry-ai/agentry/logging"
	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/registry"
	"github.com/agentry-ai/agentry/runtime"
)

// Entity is the uniform surface of a constructed agent. Execute is the sole
// entry point external callers use, regardless of which callables the entity
// defines.
type Entity interface {
	// ID returns the unique instance identifier.
	ID() string

	// Name returns the display name.
	Name() string

	// Kind returns the registered kind the entity was built for.
	Kind() *registry.Kind

	// Execute runs one conversational turn against the entity's runtime.
	Execute(ctx context.Context, input string) (string, error)
}

// Options configure entity construction.
type Options struct {
	// Name is the display name. Defaults to the kind's name.
	Name string

	// Instructions is the standing system prompt for the entity's runtime.
	Instructions string

	// MaxTurns bounds the model turns of one Execute call.
	MaxTurns int

	// MaxModelCalls bounds model calls over the entity's lifetime.
	// Zero means unlimited.
	MaxModelCalls int

	// CallsPerMinute throttles model calls. Zero means unthrottled.
	CallsPerMinute int

	// Logger receives structured diagnostics from the entity and its
	// operations.
	Logger logging.Logger

	// Middlewares wrap every built operation, first entry outermost.
	Middlewares []runtime.Middleware
}

// Base carries the runtime plumbing shared by all entities. Concrete agents
// embed *Base and gain Execute, leaving them to implement only their domain
// callables.
//
// Construction resolves the effective callable set of the entity's kind,
// builds one operation per callable bound to the supplied receiver, and
// creates the runtime. After NewBase returns the entity is Ready; there is
// no teardown.
type Base struct {
	id     string
	name   string
	kind   *registry.Kind
	rt     *runtime.Runtime
	logger logging.Logger
}

// NewBase constructs the base for one concrete entity.
//
// recv is the concrete agent the operations bind to; handlers and transforms
// receive it on every invocation. Construction fails when a required
// collaborator is missing or when the runtime rejects the operation list;
// such errors are fatal and must propagate to whoever constructs the entity.
//
// Parameters:
//   - kind: the registered kind to resolve callables for
//   - recv: the concrete entity instance operations bind to
//   - m: the model driving the entity's runtime
//   - reg: the registry holding callables and chains
//   - optFns: functional options
func NewBase(kind *registry.Kind, recv any, m model.Model, reg *registry.Registry, optFns ...func(o *Options)) (*Base, error) {
	if kind == nil {
		return nil, fmt.Errorf("entity: kind is required")
	}
	if recv == nil {
		return nil, fmt.Errorf("entity: receiver is required")
	}
	if m == nil {
		return nil, fmt.Errorf("entity: model is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("entity: registry is required")
	}

	opts := Options{
		Name:   kind.Name(),
		Logger: logging.Default(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Name == "" {
		opts.Name = kind.Name()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	callables := reg.Resolve(kind)
	ops := make([]runtime.Operation, 0, len(callables))
	for _, c := range callables {
		op := NewOperation(recv, c, reg.Chains(), opts.Logger)
		for i := len(opts.Middlewares) - 1; i >= 0; i-- {
			op = opts.Middlewares[i](op)
		}
		ops = append(ops, op)
	}

	rt, err := runtime.New(m, ops,
		func(o *runtime.Options) {
			o.Instructions = opts.Instructions
			o.MaxTurns = opts.MaxTurns
			o.MaxModelCalls = opts.MaxModelCalls
			o.CallsPerMinute = opts.CallsPerMinute
			o.Logger = opts.Logger
		},
	)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", opts.Name, err)
	}

	opts.Logger.Debug("entity.ready",
		"entity", opts.Name,
		"kind", kind.Name(),
		"operations", len(ops),
	)

	return &Base{
		id:     uuid.NewString(),
		name:   opts.Name,
		kind:   kind,
		rt:     rt,
		logger: opts.Logger,
	}, nil
}

// ID returns the unique instance identifier.
func (b *Base) ID() string { return b.id }

// Name returns the display name.
func (b *Base) Name() string { return b.name }

// Kind returns the registered kind the entity was built for.
func (b *Base) Kind() *registry.Kind { return b.kind }

// Execute delegates one conversational turn to the owned runtime.
func (b *Base) Execute(ctx context.Context, input string) (string, error) {
	return b.rt.Invoke(ctx, input)
}

// Runtime exposes the owned runtime for history inspection and direct
// operation access.
func (b *Base) Runtime() *runtime.Runtime { return b.rt }
