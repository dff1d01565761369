package delegate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/strray/strray/internal/worker"
	"github.com/strray/strray/pkg/models"
)

// callWorker invokes one worker with the per-call timeout and retry
// policy. A timed-out call is a failure for that worker only; its
// eventual late result is discarded, never merged.
func (d *Delegator) callWorker(ctx context.Context, w worker.Worker, task *models.TaskDescriptor) models.WorkerResult {
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()

	type outcome struct {
		res *models.WorkerResult
		err error
	}
	ch := make(chan outcome, 1)
	start := time.Now()

	go func() {
		var res *models.WorkerResult
		var err error
		for attempt := 0; ; attempt++ {
			res, err = w.Execute(callCtx, task)
			if err == nil || attempt >= d.cfg.MaxRetries {
				break
			}
			d.cfg.Logger.Log("worker %s attempt %d failed: %v", w.Name(), attempt+1, err)
			select {
			case <-callCtx.Done():
			case <-time.After(d.cfg.RetryBackoff * (1 << attempt)):
				continue
			}
			break
		}
		ch <- outcome{res, err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			return models.WorkerResult{
				Worker:    w.Name(),
				SessionID: task.Context.SessionID,
				Err:       out.err.Error(),
				Duration:  time.Since(start),
				Timestamp: time.Now(),
			}
		}
		res := *out.res
		if res.Worker == "" {
			res.Worker = w.Name()
		}
		return res
	case <-callCtx.Done():
		return models.WorkerResult{
			Worker:    w.Name(),
			SessionID: task.Context.SessionID,
			Err:       fmt.Sprintf("timed out after %s", d.cfg.CallTimeout),
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		}
	}
}

// subtaskFor derives the per-worker subtask for an orchestrator-led
// delegation, annotating the description with the worker's perspective.
func subtaskFor(task *models.TaskDescriptor, w *models.WorkerCapability) *models.TaskDescriptor {
	perspective := w.Name
	if len(w.Expertise) > 0 {
		perspective = w.Expertise[0]
	}
	sub := *task
	sub.Description = fmt.Sprintf("%s [perspective: %s]", task.Description, perspective)
	return &sub
}

// fanOut issues all worker calls concurrently and joins on every one
// of them. A failing call never aborts its siblings; results come back
// in selection order regardless of completion order.
func (d *Delegator) fanOut(ctx context.Context, sel selection, task *models.TaskDescriptor, strategy models.Strategy) []models.WorkerResult {
	results := make([]models.WorkerResult, len(sel.workers))
	var wg sync.WaitGroup

	for i := range sel.workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := sel.workers[i]
			t := task
			if strategy == models.StrategyOrchestrator {
				t = subtaskFor(task, &w)
			}
			results[i] = d.callWorker(ctx, d.cfg.Workers.Worker(w.Name), t)
		}(i)
	}
	wg.Wait()
	return results
}

// consolidate merges per-worker outcomes into the final delegation
// result for the given strategy.
func (d *Delegator) consolidate(sel selection, record models.DelegationRecord, results []models.WorkerResult, tokens []string) *models.DelegationResult {
	out := &models.DelegationResult{Record: record}

	var successes []models.WorkerResult
	for _, r := range results {
		out.TotalDuration += r.Duration
		if r.Success {
			out.Succeeded++
			successes = append(successes, r)
		} else {
			out.Failed++
		}
	}

	switch record.Strategy {
	case models.StrategyOrchestrator:
		// Lead-coordinated runs return only the successful subtask
		// results; failures survive in the counts.
		out.Results = successes
		var parts []string
		for _, r := range successes {
			parts = append(parts, r.Output)
		}
		out.Output = strings.Join(parts, "\n\n")
		out.Resolved = len(successes) > 0

	case models.StrategyMulti:
		out.Results = results
		outcome := d.reconcile(record.Policy, sel, successes, tokens)
		out.Output = outcome.Value
		out.Resolved = outcome.Resolved

	default:
		out.Results = results
		if len(successes) > 0 {
			out.Output = successes[0].Output
			out.Resolved = true
		}
	}

	return out
}
