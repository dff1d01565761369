// Package pipeline wraps every delegation in an ordered chain of pre
// and post processing hooks. Hooks are independent of which workers
// ran: they see the task going in and the delegation result coming out.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/strray/strray/internal/events"
	"github.com/strray/strray/pkg/models"
)

// PreProcessor runs before worker execution. A returned error aborts
// the delegation before any session state is mutated.
type PreProcessor interface {
	Name() string
	Before(ctx context.Context, task *models.TaskDescriptor) error
}

// PostProcessor runs after worker execution and conflict resolution.
// Errors are surfaced to the caller but do not invalidate the result.
type PostProcessor interface {
	Name() string
	After(ctx context.Context, task *models.TaskDescriptor, result *models.DelegationResult) error
}

// Pipeline executes processors in registration order.
type Pipeline struct {
	pre    []PreProcessor
	post   []PostProcessor
	events *events.Emitter
}

// Config configures a Pipeline.
type Config struct {
	Pre    []PreProcessor
	Post   []PostProcessor
	Events *events.Emitter
}

// New creates a Pipeline. A nil Events emitter disables observability
// tuples without disabling the hooks themselves.
func New(cfg Config) *Pipeline {
	return &Pipeline{pre: cfg.Pre, post: cfg.Post, events: cfg.Events}
}

// Default returns a Pipeline with the standard hook chain: input
// validation and compliance checking before execution, state
// validation after.
func Default(em *events.Emitter) *Pipeline {
	return New(Config{
		Pre:    []PreProcessor{&InputValidation{}, &ComplianceCheck{}},
		Post:   []PostProcessor{&StateValidation{}},
		Events: em,
	})
}

// RunPre executes the pre-hooks in order, stopping at the first error.
func (p *Pipeline) RunPre(ctx context.Context, task *models.TaskDescriptor) error {
	for _, proc := range p.pre {
		if err := proc.Before(ctx, task); err != nil {
			p.events.Emit("pipeline", proc.Name(), events.StatusFailed, map[string]string{
				"phase": "pre",
				"error": err.Error(),
			})
			return fmt.Errorf("pre-processor %s: %w", proc.Name(), err)
		}
		p.events.Emit("pipeline", proc.Name(), events.StatusOK, map[string]string{"phase": "pre"})
	}
	return nil
}

// RunPost executes the post-hooks in order. All hooks run even when an
// earlier one fails; the first error is returned so the caller can log
// a warning, but the delegation result stands.
func (p *Pipeline) RunPost(ctx context.Context, task *models.TaskDescriptor, result *models.DelegationResult) error {
	var first error
	for _, proc := range p.post {
		if err := proc.After(ctx, task, result); err != nil {
			p.events.Emit("pipeline", proc.Name(), events.StatusFailed, map[string]string{
				"phase": "post",
				"error": err.Error(),
			})
			log.Printf("[pipeline] post-processor %s failed: %v", proc.Name(), err)
			if first == nil {
				first = fmt.Errorf("post-processor %s: %w", proc.Name(), err)
			}
			continue
		}
		p.events.Emit("pipeline", proc.Name(), events.StatusOK, map[string]string{"phase": "post"})
	}
	return first
}
