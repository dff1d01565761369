// Package conflict reconciles disagreeing worker outputs. It is used
// by the delegator for multi-worker result merging and by the session
// coordinator for shared-context resolution, so the semantics live in
// one place.
package conflict

import (
	"github.com/strray/strray/pkg/models"
)

// Entry is one candidate value in a resolution.
type Entry struct {
	// Value is the candidate payload.
	Value string
	// Worker is the contributor of the value.
	Worker string
	// Authoritative marks the worker as the designated expert for
	// the question at hand (expert_priority only).
	Authoritative bool
}

// Outcome is the result of applying a policy over a set of entries.
type Outcome struct {
	// Resolved indicates whether a winner was found. A consensus
	// over divergent values is explicitly unresolved; callers must
	// escalate rather than pick a value themselves.
	Resolved bool
	// Value is the winning payload, empty when unresolved.
	Value string
	// Workers lists every contributor, in entry order.
	Workers []string
}

// Resolve applies the given policy over the entries. An empty entry set
// is unresolved; a single entry always wins regardless of policy.
func Resolve(policy models.ConflictPolicy, entries []Entry) Outcome {
	workers := make([]string, 0, len(entries))
	for _, e := range entries {
		workers = append(workers, e.Worker)
	}

	if len(entries) == 0 {
		return Outcome{Workers: workers}
	}
	if len(entries) == 1 {
		return Outcome{Resolved: true, Value: entries[0].Value, Workers: workers}
	}

	switch policy {
	case models.PolicyMajorityVote:
		return Outcome{Resolved: true, Value: majority(entries), Workers: workers}
	case models.PolicyExpertPriority:
		return Outcome{Resolved: true, Value: expert(entries), Workers: workers}
	default:
		// Consensus: every value must agree exactly. Divergence is
		// surfaced as unresolved, never papered over.
		first := entries[0].Value
		for _, e := range entries[1:] {
			if e.Value != first {
				return Outcome{Workers: workers}
			}
		}
		return Outcome{Resolved: true, Value: first, Workers: workers}
	}
}

// majority returns the most frequent value. Ties go to the value seen
// first.
func majority(entries []Entry) string {
	counts := make(map[string]int, len(entries))
	order := make([]string, 0, len(entries))

	for _, e := range entries {
		if _, seen := counts[e.Value]; !seen {
			order = append(order, e.Value)
		}
		counts[e.Value]++
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

// expert returns the first authoritative entry's value, falling back to
// the first entry when no contributor is designated.
func expert(entries []Entry) string {
	for _, e := range entries {
		if e.Authoritative {
			return e.Value
		}
	}
	return entries[0].Value
}
