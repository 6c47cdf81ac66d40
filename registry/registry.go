package registry

import (
	"fmt"
	"sync"

	"github.com/agentry-ai/agentry/schema"
)

// Registry stores callable declarations per Kind together with the chain
// store for their transforms. A Registry is populated once at startup by the
// registration functions of the entity packages and read thereafter; there is
// no removal.
//
// Example usage:
//
//	reg := registry.New()
//	if err := agents.RegisterAll(reg); err != nil {
//		log.Fatal(err)
//	}
//	agent, err := agents.NewFileAgent(reg, m, "notes.txt")
type Registry struct {
	mu        sync.RWMutex
	callables map[*Kind][]Callable
	chains    *ChainStore
}

// New creates an empty registry with its own chain store.
func New() *Registry {
	return &Registry{
		callables: make(map[*Kind][]Callable),
		chains:    NewChainStore(),
	}
}

// Register validates and stores a callable declaration.
//
// Missing optional fields are filled in: Method defaults to Name, Mode to
// ModeTool and Schema to schema.Empty. Registration fails when the kind or
// handler is missing, when the external name is empty, or when the kind
// already declares a callable with the same external name. Name collisions
// across different kinds are legal; the resolver applies override rules for
// related kinds at read time.
func (r *Registry) Register(c Callable) error {
	if c.Kind == nil {
		return fmt.Errorf("registry: callable %q: kind is required", c.Name)
	}
	if c.Name == "" {
		return fmt.Errorf("registry: callable on kind %q: name is required", c.Kind.Name())
	}
	if c.Handler == nil {
		return fmt.Errorf("registry: callable %q on kind %q: handler is required", c.Name, c.Kind.Name())
	}
	if c.Method == "" {
		c.Method = c.Name
	}
	if c.Mode == "" {
		c.Mode = ModeTool
	}
	if c.Schema == nil {
		c.Schema = schema.Empty()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.callables[c.Kind] {
		if existing.Name == c.Name {
			return fmt.Errorf("registry: callable %q already registered on kind %q", c.Name, c.Kind.Name())
		}
	}
	r.callables[c.Kind] = append(r.callables[c.Kind], c)

	return nil
}

// MustRegister is like Register but panics on error. Intended for startup
// wiring where a rejected declaration is a programming error.
func (r *Registry) MustRegister(c Callable) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Lookup returns the callables declared directly on the given kind, in
// registration order, without any inherited declarations. The result is a
// copy; it is empty when nothing is registered.
func (r *Registry) Lookup(k *Kind) []Callable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Callable(nil), r.callables[k]...)
}

// Resolve returns the effective callable set for the given kind: the result
// of walking the ancestry most derived first and keeping, per external name,
// only the first declaration seen. A subtype declaration therefore fully
// replaces an ancestor declaration of the same name. Within one kind the
// registration order is preserved.
//
// Resolve is a pure read; registering more callables afterwards does not
// change sets resolved earlier.
func (r *Registry) Resolve(k *Kind) []Callable {
	if k == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Callable
	seen := make(map[string]struct{})
	for _, kind := range k.Ancestry() {
		for _, c := range r.callables[kind] {
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Chains returns the chain store transforms attach to.
func (r *Registry) Chains() *ChainStore {
	return r.chains
}
