package registry

import "sync"

// ActiveTracker counts in-flight tasks per worker. Availability checks
// and increments happen under one lock so concurrent delegations cannot
// oversubscribe a worker's capacity. Counts are deliberately kept out
// of the catalog itself to avoid stale-state bugs.
type ActiveTracker struct {
	// active maps worker names to their in-flight task count.
	active map[string]int
	// mu protects active.
	mu sync.Mutex
}

// NewActiveTracker creates an empty ActiveTracker.
func NewActiveTracker() *ActiveTracker {
	return &ActiveTracker{
		active: make(map[string]int),
	}
}

// TryAcquire reserves one slot for the worker if its in-flight count is
// below capacity. The check and the increment are atomic.
func (t *ActiveTracker) TryAcquire(worker string, capacity int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active[worker] >= capacity {
		return false
	}
	t.active[worker]++
	return true
}

// Release frees one slot for the worker. Releasing below zero is a
// programming error and is clamped rather than allowed to go negative.
func (t *ActiveTracker) Release(worker string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active[worker] > 0 {
		t.active[worker]--
	}
	if t.active[worker] == 0 {
		delete(t.active, worker)
	}
}

// Active returns the current in-flight count for the worker.
func (t *ActiveTracker) Active(worker string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[worker]
}
