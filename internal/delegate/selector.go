package delegate

import (
	"strings"

	"github.com/strray/strray/pkg/models"
)

// selection is the outcome of candidate selection: the chosen workers
// plus bookkeeping about which ones hold a reserved capacity slot and
// any reasoning notes a fallback produced.
type selection struct {
	workers  []models.WorkerCapability
	acquired []string
	notes    []string
}

// taskTokens splits the operation kind and description into lowercase
// tokens used for tag matching.
func taskTokens(task *models.TaskDescriptor) []string {
	raw := strings.Fields(strings.ToLower(string(task.Operation) + " " + task.Description))
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(t, ".,;:!?()[]{}\"'")
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// tagMatches reports whether any of the worker's capability or
// specialty tags matches a task token by case-insensitive substring in
// either direction. A "security" token matches a "security-review" tag
// and vice versa.
func tagMatches(w *models.WorkerCapability, tokens []string) bool {
	for _, tag := range append(append([]string{}, w.Expertise...), w.Specialties...) {
		lower := strings.ToLower(tag)
		for _, tok := range tokens {
			if strings.Contains(lower, tok) || strings.Contains(tok, lower) {
				return true
			}
		}
	}
	return false
}

// authoritativeFor reports whether the worker's tags mark it as the
// designated expert for this task, used by expert_priority resolution.
func authoritativeFor(w *models.WorkerCapability, tokens []string) bool {
	return tagMatches(w, tokens)
}

// acquire reserves a capacity slot for the worker, recording the
// reservation so it can be released after execution.
func (d *Delegator) acquire(sel *selection, w models.WorkerCapability) bool {
	if !d.cfg.Tracker.TryAcquire(w.Name, w.Capacity) {
		return false
	}
	sel.workers = append(sel.workers, w)
	sel.acquired = append(sel.acquired, w.Name)
	return true
}

// selectWorkers picks concrete workers for the routed strategy.
// Candidates come ranked by performance score descending; capacity
// checks and slot reservation are atomic per worker, so concurrent
// delegations cannot oversubscribe anyone.
func (d *Delegator) selectWorkers(task *models.TaskDescriptor, cx models.ComplexityResult) selection {
	ranked := d.cfg.Registry.List()
	tokens := taskTokens(task)
	var sel selection

	switch cx.Strategy {
	case models.StrategyMulti:
		// Tag-matching candidates first, then fill remaining slots
		// from the ranked list without duplicates.
		taken := make(map[string]bool)
		for _, w := range ranked {
			if len(sel.workers) >= cx.EstimatedWorkers {
				break
			}
			if tagMatches(&w, tokens) && d.acquire(&sel, w) {
				taken[w.Name] = true
			}
		}
		for _, w := range ranked {
			if len(sel.workers) >= cx.EstimatedWorkers {
				break
			}
			if !taken[w.Name] && d.acquire(&sel, w) {
				taken[w.Name] = true
			}
		}

	case models.StrategyOrchestrator:
		for _, w := range ranked {
			if len(sel.workers) >= cx.EstimatedWorkers {
				break
			}
			d.acquire(&sel, w)
		}

	default:
		// Single-agent: first tag match wins, else the top-ranked
		// available worker.
		for _, w := range ranked {
			if tagMatches(&w, tokens) && d.acquire(&sel, w) {
				break
			}
		}
		if len(sel.workers) == 0 {
			for _, w := range ranked {
				if d.acquire(&sel, w) {
					break
				}
			}
		}
	}

	// Capacity exhaustion: rather than failing the delegation, fall
	// back to the top-ranked candidate without a reserved slot and
	// flag the fallback in the reasoning.
	if len(sel.workers) == 0 && len(ranked) > 0 {
		top := ranked[0]
		sel.workers = append(sel.workers, top)
		sel.notes = append(sel.notes,
			"no capacity: falling back to top-ranked worker "+top.Name)
	}

	return sel
}

// release frees every capacity slot the selection reserved.
func (d *Delegator) release(sel selection) {
	for _, name := range sel.acquired {
		d.cfg.Tracker.Release(name)
	}
}
