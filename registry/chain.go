package registry

import (
	"context"
	"sync"
)

// BeforeFunc transforms an operation's arguments before the underlying method
// runs. Each transform receives the value produced by the previous one and
// returns a replacement; returning an error aborts the remaining chain and
// the method call. The receiver is the entity the operation is bound to.
//
// Use before-transforms for auditing, policy checks and argument rewriting:
//
//	chains.AddBefore(ref, func(ctx context.Context, recv any, args map[string]any) (map[string]any, error) {
//		if cmd, _ := args["command"].(string); cmd == "" {
//			return nil, errors.New("command must not be empty")
//		}
//		return args, nil
//	})
type BeforeFunc func(ctx context.Context, recv any, args map[string]any) (map[string]any, error)

// AfterFunc transforms an operation's result after the underlying method
// returns. Each transform receives the value produced by the previous one and
// returns a replacement. After-transforms do not run when the method fails.
// The receiver is the entity the operation is bound to, which lets a
// transform refresh derived entity state such as a summary.
type AfterFunc func(ctx context.Context, recv any, result any) (any, error)

// ChainStore maps method implementations to their ordered before and after
// transform lists. Chains attach to a MethodRef, not to an external name, so
// a subtype that inherits a method unchanged shares the parent's chains while
// an override starts with empty ones.
//
// Transforms run in attachment order. Stacking several transforms of the same
// side on one method appends each new one after those already attached.
//
// Thread Safety:
// Attachment normally happens once at startup, but the store is guarded so
// that attachment and reads are safe from any goroutine.
type ChainStore struct {
	mu     sync.RWMutex
	before map[MethodRef][]BeforeFunc
	after  map[MethodRef][]AfterFunc
}

// NewChainStore creates an empty chain store.
func NewChainStore() *ChainStore {
	return &ChainStore{
		before: make(map[MethodRef][]BeforeFunc),
		after:  make(map[MethodRef][]AfterFunc),
	}
}

// AddBefore appends fn to the before-chain of the given method.
func (s *ChainStore) AddBefore(ref MethodRef, fn BeforeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before[ref] = append(s.before[ref], fn)
}

// AddAfter appends fn to the after-chain of the given method.
func (s *ChainStore) AddAfter(ref MethodRef, fn AfterFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.after[ref] = append(s.after[ref], fn)
}

// Before returns the before-chain of the given method in attachment order.
// The result is a copy and may be empty, never an error.
func (s *ChainStore) Before(ref MethodRef) []BeforeFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]BeforeFunc(nil), s.before[ref]...)
}

// After returns the after-chain of the given method in attachment order.
// The result is a copy and may be empty, never an error.
func (s *ChainStore) After(ref MethodRef) []AfterFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]AfterFunc(nil), s.after[ref]...)
}
