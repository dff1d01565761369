package delegate

import (
	"context"
	"sync"

	"github.com/strray/strray/pkg/models"
)

// HandleState is the observable state of an asynchronous delegation.
type HandleState string

const (
	StateRunning  HandleState = "running"
	StateDone     HandleState = "done"
	StateFailed   HandleState = "failed"
	StateCanceled HandleState = "canceled"
)

// Handle is the return variant for fire-and-monitor delegations: the
// caller polls status or waits instead of blocking on Delegate.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	state  HandleState
	result *models.DelegationResult
	err    error
}

// DelegateAsync starts the delegation in the background and returns a
// Handle immediately. The two return variants are never mixed: callers
// choose Delegate or DelegateAsync, not both for one task.
func (d *Delegator) DelegateAsync(ctx context.Context, task *models.TaskDescriptor) *Handle {
	runCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
		state:  StateRunning,
	}

	go func() {
		defer close(h.done)
		defer cancel()

		result, err := d.Delegate(runCtx, task)

		h.mu.Lock()
		defer h.mu.Unlock()
		h.result = result
		h.err = err
		switch {
		case runCtx.Err() != nil && h.state == StateCanceled:
			// Cancel() already set the state.
		case err != nil:
			h.state = StateFailed
		default:
			h.state = StateDone
		}
	}()

	return h
}

// State returns the handle's current state.
func (h *Handle) State() HandleState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Cancel stops the delegation. In-flight worker calls observe the
// cancellation through their contexts; already-finished work stands.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.state == StateRunning {
		h.state = StateCanceled
	}
	h.mu.Unlock()
	h.cancel()
}

// Done returns a channel closed when the delegation finishes.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the delegation finishes and returns its outcome.
func (h *Handle) Wait() (*models.DelegationResult, error) {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.err
}
