package delegate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/strray/strray/internal/complexity"
	"github.com/strray/strray/internal/conflict"
	"github.com/strray/strray/internal/events"
	"github.com/strray/strray/internal/pipeline"
	"github.com/strray/strray/internal/registry"
	"github.com/strray/strray/internal/session"
	"github.com/strray/strray/internal/worker"
	"github.com/strray/strray/pkg/models"
)

// ErrNoUsableResult is returned when every assigned worker failed or
// timed out; the wrapped message aggregates each worker's reason.
var ErrNoUsableResult = errors.New("no usable worker result")

// DefaultCallTimeout bounds a single worker call.
const DefaultCallTimeout = 2 * time.Minute

// DefaultRetryBackoff is the base backoff between retry attempts; it
// doubles per attempt.
const DefaultRetryBackoff = 500 * time.Millisecond

// Config contains the Delegator's collaborators and tuning.
type Config struct {
	// Registry is the worker catalog, required.
	Registry *registry.Registry
	// Tracker holds live active-task counts, required.
	Tracker *registry.ActiveTracker
	// Coordinator receives session mutations; nil disables session
	// coordination entirely.
	Coordinator *session.Coordinator
	// Manager tracks session lifecycle metadata; nil disables reaping
	// integration.
	Manager *session.Manager
	// Pipeline wraps every delegation in pre/post hooks; nil runs
	// without hooks.
	Pipeline *pipeline.Pipeline
	// Workers resolves catalog names to executable workers, required.
	Workers worker.Provider
	// Events receives a structured tuple at each state transition.
	Events *events.Emitter
	// Logger receives debug lines; nil and NopLogger are equivalent.
	Logger *DebugLogger
	// CallTimeout bounds each worker call. Zero means
	// DefaultCallTimeout.
	CallTimeout time.Duration
	// MaxRetries is how many times a failed worker call is retried
	// before counting as failed. Zero disables retries.
	MaxRetries int
	// RetryBackoff is the base backoff between attempts. Zero means
	// DefaultRetryBackoff.
	RetryBackoff time.Duration
}

// Delegator routes tasks to workers. It owns no session state; all
// coordination goes through the injected Coordinator.
type Delegator struct {
	cfg Config
}

// New creates a Delegator, applying defaults for unset tuning fields.
func New(cfg Config) *Delegator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}
	if cfg.Tracker == nil {
		cfg.Tracker = registry.NewActiveTracker()
	}
	if cfg.Workers == nil {
		cfg.Workers = worker.NewRegistry()
	}
	return &Delegator{cfg: cfg}
}

// Delegate scores the task, selects workers, drives execution, and
// reconciles the results. It blocks until every worker call has
// finished or timed out.
func (d *Delegator) Delegate(ctx context.Context, task *models.TaskDescriptor) (*models.DelegationResult, error) {
	if d.cfg.Pipeline != nil {
		if err := d.cfg.Pipeline.RunPre(ctx, task); err != nil {
			d.cfg.Events.Emit("delegate", "pre-hooks", events.StatusFailed, map[string]string{"error": err.Error()})
			return nil, err
		}
	}

	cx := complexity.Score(task.Operation, task.Context)
	d.cfg.Logger.Log("scored task %.1f (%s) strategy=%s workers=%d",
		cx.Score, cx.Level, cx.Strategy, cx.EstimatedWorkers)
	d.cfg.Events.Emit("delegate", "score", events.StatusOK, map[string]string{
		"score":    fmt.Sprintf("%.1f", cx.Score),
		"level":    string(cx.Level),
		"strategy": string(cx.Strategy),
	})

	sel := d.selectWorkers(task, cx)
	defer d.release(sel)

	if len(sel.workers) == 0 {
		d.cfg.Events.Emit("delegate", "select", events.StatusFailed, map[string]string{"reason": "empty catalog"})
		return nil, fmt.Errorf("select workers: catalog is empty")
	}
	cx.Reasoning = append(cx.Reasoning, sel.notes...)

	names := make([]string, len(sel.workers))
	for i, w := range sel.workers {
		names[i] = w.Name
	}
	record := models.DelegationRecord{
		ID:                uuid.New().String()[:8],
		Strategy:          cx.Strategy,
		Workers:           names,
		Complexity:        cx,
		Policy:            complexity.PolicyFor(cx.Level),
		EstimatedDuration: time.Duration(task.Context.EstimatedMinutes) * time.Minute,
		CreatedAt:         time.Now(),
	}
	d.cfg.Logger.Log("delegation %s -> %s via %s policy=%s",
		record.ID, strings.Join(names, ","), record.Strategy, record.Policy)

	sid := task.Context.SessionID
	if sid != "" && d.cfg.Coordinator != nil {
		if !d.cfg.Coordinator.Exists(sid) {
			if err := d.cfg.Coordinator.InitializeSession(sid); err != nil {
				return nil, fmt.Errorf("initialize session: %w", err)
			}
			if d.cfg.Manager != nil {
				d.cfg.Manager.Track(sid)
			}
		}
		if err := d.cfg.Coordinator.RegisterDelegation(sid, record); err != nil {
			return nil, fmt.Errorf("register delegation: %w", err)
		}
		if d.cfg.Manager != nil {
			d.cfg.Manager.Touch(sid)
		}
	}

	results := d.fanOut(ctx, sel, task, record.Strategy)
	d.recordInteractions(sid, task, results)

	result := d.consolidate(sel, record, results, taskTokens(task))

	if sid != "" && d.cfg.Coordinator != nil {
		if err := d.cfg.Coordinator.CompleteDelegation(sid, record.ID, result); err != nil {
			d.cfg.Logger.Log("complete delegation %s: %v", record.ID, err)
		}
	}

	if d.cfg.Pipeline != nil {
		if err := d.cfg.Pipeline.RunPost(ctx, task, result); err != nil {
			d.cfg.Logger.Log("post-hooks for delegation %s: %v", record.ID, err)
		}
	}

	if result.Succeeded == 0 {
		d.cfg.Events.Emit("delegate", "execute", events.StatusFailed, map[string]string{"delegation": record.ID})
		return result, fmt.Errorf("%w: %s", ErrNoUsableResult, failureSummary(results))
	}

	d.cfg.Events.Emit("delegate", "execute", events.StatusOK, map[string]string{
		"delegation": record.ID,
		"succeeded":  fmt.Sprintf("%d", result.Succeeded),
		"failed":     fmt.Sprintf("%d", result.Failed),
	})
	return result, nil
}

// reconcile applies the delegation's conflict policy over the
// successful worker outputs. Authority for expert_priority comes from
// tag affinity with the task.
func (d *Delegator) reconcile(policy models.ConflictPolicy, sel selection, successes []models.WorkerResult, tokens []string) conflict.Outcome {
	entries := make([]conflict.Entry, 0, len(successes))
	for _, r := range successes {
		authoritative := false
		if w, ok := d.cfg.Registry.Get(r.Worker); ok {
			authoritative = authoritativeFor(&w, tokens)
		}
		entries = append(entries, conflict.Entry{
			Value:         r.Output,
			Worker:        r.Worker,
			Authoritative: authoritative,
		})
	}
	outcome := conflict.Resolve(policy, entries)
	if !outcome.Resolved && len(entries) > 1 {
		d.cfg.Logger.Log("unresolved %s conflict across %s; escalation required",
			policy, strings.Join(outcome.Workers, ","))
	}
	return outcome
}

// recordInteractions logs one interaction per worker result into the
// session. Logging never blocks execution; a missing session is fine.
func (d *Delegator) recordInteractions(sid string, task *models.TaskDescriptor, results []models.WorkerResult) {
	if sid == "" || d.cfg.Coordinator == nil {
		return
	}
	for _, r := range results {
		in := models.Interaction{
			Action:   "execute " + string(task.Operation),
			Success:  r.Success,
			Detail:   r.Err,
			Duration: r.Duration,
		}
		if err := d.cfg.Coordinator.RecordInteraction(sid, r.Worker, in); err != nil {
			d.cfg.Logger.Log("record interaction for %s: %v", r.Worker, err)
		}
	}
}

// failureSummary aggregates each worker's failure reason into one line.
func failureSummary(results []models.WorkerResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if !r.Success {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Worker, r.Err))
		}
	}
	return strings.Join(parts, "; ")
}
