package models

import "time"

// ConflictPolicy selects how disagreeing worker outputs are reconciled.
type ConflictPolicy string

const (
	// PolicyConsensus requires all outputs to agree exactly.
	PolicyConsensus ConflictPolicy = "consensus"
	// PolicyMajorityVote picks the most frequent output.
	PolicyMajorityVote ConflictPolicy = "majority_vote"
	// PolicyExpertPriority prefers the authoritative worker's output.
	PolicyExpertPriority ConflictPolicy = "expert_priority"
)

// Valid returns true if the policy is a known value.
func (p ConflictPolicy) Valid() bool {
	switch p {
	case PolicyConsensus, PolicyMajorityVote, PolicyExpertPriority:
		return true
	default:
		return false
	}
}

// DelegationRecord captures one routing decision. It is created per
// task, consumed once by the executor, and retained only in aggregate
// session metrics.
type DelegationRecord struct {
	// ID uniquely identifies the delegation.
	ID string `json:"id"`
	// Strategy is the routing decision that was applied.
	Strategy Strategy `json:"strategy"`
	// Workers lists the assigned worker names in selection order.
	Workers []string `json:"workers"`
	// Complexity is the scorer output that drove the decision.
	Complexity ComplexityResult `json:"complexity"`
	// Policy is the conflict-resolution policy chosen at delegation
	// time. It is attached here and never re-derived.
	Policy ConflictPolicy `json:"policy"`
	// EstimatedDuration is the expected wall time for the task.
	EstimatedDuration time.Duration `json:"estimated_duration"`
	// CreatedAt is when the delegation was issued.
	CreatedAt time.Time `json:"created_at"`
}

// DelegationResult is the final outcome returned to the submitter.
type DelegationResult struct {
	// Record is the routing decision that produced this result.
	Record DelegationRecord `json:"record"`
	// Results holds the per-worker outcomes, failures included.
	Results []WorkerResult `json:"results"`
	// Output is the reconciled payload, empty when unresolved.
	Output string `json:"output,omitempty"`
	// Resolved indicates whether reconciliation produced a winner.
	// Single-worker delegations are always resolved.
	Resolved bool `json:"resolved"`
	// Succeeded counts workers that returned a usable result.
	Succeeded int `json:"succeeded"`
	// Failed counts workers that errored or timed out.
	Failed int `json:"failed"`
	// TotalDuration is the sum of the reported worker durations.
	TotalDuration time.Duration `json:"total_duration"`
}
