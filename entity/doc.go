// Package entity anchors the lifecycle of domain agents: resolving their
// registered callables, wrapping each into a schema-validated operation with
// its before/after transforms, and handing the operation list to a runtime.
//
// Construction and execution are the two phases of an entity's life:
//
//  1. Constructing: NewBase resolves the effective callable set for the
//     entity's kind, builds one operation per callable bound to the concrete
//     receiver, and creates the runtime. Any failure here is fatal and
//     propagates out of the constructor.
//  2. Ready: Execute and the entity's operations may be invoked any number
//     of times. Per-operation failures become *OperationError values that the
//     runtime reports to the model as failed tool calls; they never
//     terminate the entity.
//
// Concrete agents embed *Base and register their callables against a Kind:
//
//	type EchoAgent struct {
//		*entity.Base
//	}
//
//	agent := &EchoAgent{}
//	base, err := entity.NewBase(EchoKind, agent, m, reg)
//	if err != nil {
//		return nil, err
//	}
//	agent.Base = base
//
// Entities are not safe for concurrent invocation of state-mutating
// operations; callers needing at-most-one-in-flight semantics per entity
// must serialize externally.
package entity
