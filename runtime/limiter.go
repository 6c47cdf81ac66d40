package runtime

import (
	"fmt"
	"sync"
)

// callBudget enforces a maximum number of model calls over a runtime's
// lifetime. A max of 0 allows unlimited calls.
type callBudget struct {
	max   int
	count int
	mu    sync.Mutex
}

func newCallBudget(max int) *callBudget {
	return &callBudget{max: max}
}

// increment counts one call and reports whether the budget is exhausted.
func (b *callBudget) increment() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	if b.max > 0 && b.count > b.max {
		return fmt.Errorf("%w: limit %d", ErrModelCalls, b.max)
	}

	return nil
}

// used returns the number of calls made so far.
func (b *callBudget) used() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}
