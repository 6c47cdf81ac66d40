// Package registry holds the callable metadata that turns entity methods into
// model-invocable operations in Agentry. The package focuses on three concerns:
//
//  1. Identity: Kind values anchor registration to one entity type and link
//     it to its parent, giving every type an explicit, finite ancestry
//  2. Declaration: Callable descriptors record the external name, description,
//     input schema, mode and handler of one exposed method
//  3. Composition: a ChainStore attaches ordered before/after transforms to a
//     method, keyed by the (kind, method) pair that declared it
//
// Design principles:
//   - No hidden global state: a Registry is constructed explicitly and passed
//     to whatever wires entities together, and is populated once at startup
//   - Inheritance is a read-time concern: Register stores descriptors against
//     exactly one Kind; Resolve flattens the ancestry with first-occurrence
//     name override when an entity is built
//   - Registration is permanent: there is no removal, and descriptors are
//     never mutated after Register accepts them
//
// The entity package consumes this one; nothing here depends on models,
// runtimes or any concrete agent.
package registry
