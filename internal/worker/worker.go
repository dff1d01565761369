// Package worker defines the invocation boundary between the
// delegation engine and its workers. Workers are opaque callable units:
// the engine knows their names and tags, never their internals.
package worker

import (
	"context"

	"github.com/strray/strray/pkg/models"
)

// Worker executes tasks on behalf of the engine.
type Worker interface {
	// Name returns the worker's catalog name.
	Name() string
	// Execute runs one task. Implementations must honor ctx
	// cancellation; the engine treats deadline expiry as a failure
	// for this worker only.
	Execute(ctx context.Context, task *models.TaskDescriptor) (*models.WorkerResult, error)
}

// Provider resolves catalog names to executable workers. It must
// always return a usable Worker: names without a real backend degrade
// to a simulated implementation rather than failing the delegation.
type Provider interface {
	Worker(name string) Worker
}

// Compile-time verification of the worker implementations.
var (
	_ Worker   = (*Simulated)(nil)
	_ Worker   = (*Claude)(nil)
	_ Provider = (*Registry)(nil)
)

// Registry is a Provider backed by an explicit name-to-worker map.
type Registry struct {
	workers map[string]Worker
}

// NewRegistry creates a Registry over the given workers.
func NewRegistry(workers ...Worker) *Registry {
	r := &Registry{workers: make(map[string]Worker, len(workers))}
	for _, w := range workers {
		r.workers[w.Name()] = w
	}
	return r
}

// Add registers or replaces a worker.
func (r *Registry) Add(w Worker) {
	r.workers[w.Name()] = w
}

// Worker resolves a name, falling back to a simulated worker so a
// missing backend never crashes a delegation.
func (r *Registry) Worker(name string) Worker {
	if w, ok := r.workers[name]; ok {
		return w
	}
	return NewSimulated(name)
}
