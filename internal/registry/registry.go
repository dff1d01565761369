// Package registry maintains the worker catalog and the live
// active-task counts used for availability checks.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/strray/strray/pkg/models"
)

// Registry is an explicitly owned catalog of workers. It is injected
// into the delegator rather than held as a process-wide singleton so
// tests can build isolated instances.
type Registry struct {
	// workers maps worker names to their capabilities.
	workers map[string]*models.WorkerCapability
	// mu protects workers.
	mu sync.RWMutex
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		workers: make(map[string]*models.WorkerCapability),
	}
}

// NewWithCatalog creates a Registry preloaded with the given workers.
func NewWithCatalog(catalog []models.WorkerCapability) *Registry {
	r := New()
	for i := range catalog {
		w := catalog[i]
		r.Register(&w)
	}
	return r
}

// Register adds or replaces a worker in the catalog.
func (r *Registry) Register(w *models.WorkerCapability) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *w
	r.workers[w.Name] = &cp
}

// Get retrieves a copy of a worker's capability by name.
// Returns false if the worker is not registered.
func (r *Registry) Get(name string) (models.WorkerCapability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[name]
	if !ok {
		return models.WorkerCapability{}, false
	}
	return *w, true
}

// UpdateCapability applies a partial update to a worker with merge
// semantics: nil fields in the update leave existing values untouched.
func (r *Registry) UpdateCapability(name string, update models.CapabilityUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[name]
	if !ok {
		return fmt.Errorf("worker %q is not registered", name)
	}

	if update.Expertise != nil {
		w.Expertise = append([]string{}, update.Expertise...)
	}
	if update.Specialties != nil {
		w.Specialties = append([]string{}, update.Specialties...)
	}
	if update.Capacity != nil {
		w.Capacity = *update.Capacity
	}
	if update.Performance != nil {
		w.Performance = clampScore(*update.Performance)
	}
	return nil
}

// List returns copies of all registered workers sorted by descending
// performance score, names breaking ties for a stable order.
func (r *Registry) List() []models.WorkerCapability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.WorkerCapability, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Performance != out[j].Performance {
			return out[i].Performance > out[j].Performance
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Count returns the number of registered workers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workers)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
