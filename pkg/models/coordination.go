package models

import "time"

// MessagePriority orders inter-worker messages in the pending queue.
type MessagePriority string

const (
	PriorityLow    MessagePriority = "low"
	PriorityNormal MessagePriority = "normal"
	PriorityHigh   MessagePriority = "high"
)

// Message is one inter-worker message queued within a session.
// Delivery is at-most-once per ReceiveMessages call.
type Message struct {
	// ID uniquely identifies the message.
	ID string `json:"id"`
	// From is the sending worker.
	From string `json:"from"`
	// To is the addressed worker.
	To string `json:"to"`
	// Payload is the message body.
	Payload string `json:"payload"`
	// Priority hints at delivery urgency.
	Priority MessagePriority `json:"priority"`
	// SentAt is when the message was queued.
	SentAt time.Time `json:"sent_at"`
}

// Interaction records one worker touchpoint within a session.
type Interaction struct {
	// Action names what the worker did.
	Action string `json:"action"`
	// Success indicates whether the interaction succeeded.
	Success bool `json:"success"`
	// Detail carries optional context about the interaction.
	Detail string `json:"detail,omitempty"`
	// Duration is how long the interaction took, if measured.
	Duration time.Duration `json:"duration,omitempty"`
	// At is when the interaction was recorded.
	At time.Time `json:"at"`
}

// ContextEntry is one attributed value in a shared-context history.
// Histories are append-only; entries are never overwritten.
type ContextEntry struct {
	// Value is the shared payload.
	Value string `json:"value"`
	// Worker is the contributor.
	Worker string `json:"worker"`
	// At is when the value was shared.
	At time.Time `json:"at"`
}

// ConflictRecord documents one resolution attempt over a shared key.
type ConflictRecord struct {
	// Key is the shared-context key the conflict arose over.
	Key string `json:"key"`
	// Policy is the resolution policy that was applied.
	Policy ConflictPolicy `json:"policy"`
	// Workers lists the contributors whose values disagreed.
	Workers []string `json:"workers"`
	// Resolved indicates whether a winner was found.
	Resolved bool `json:"resolved"`
	// Resolution is the winning value, empty when unresolved.
	Resolution string `json:"resolution,omitempty"`
	// At is when the resolution was attempted.
	At time.Time `json:"at"`
}

// SessionMetrics aggregates coordination activity for one session.
type SessionMetrics struct {
	// TotalDelegations counts delegations registered in the session.
	TotalDelegations int `json:"total_delegations"`
	// TotalInteractions counts recorded interactions. It always
	// equals SuccessfulInteractions + FailedInteractions.
	TotalInteractions      int `json:"total_interactions"`
	SuccessfulInteractions int `json:"successful_interactions"`
	FailedInteractions     int `json:"failed_interactions"`
	// TotalConflicts counts resolution attempts; ResolvedConflicts
	// counts the ones that produced a winner.
	TotalConflicts    int `json:"total_conflicts"`
	ResolvedConflicts int `json:"resolved_conflicts"`
	// AvgResponseTime is the mean duration of timed interactions.
	AvgResponseTime time.Duration `json:"avg_response_time"`
}

// ConflictResolutionRate returns resolved/total conflicts for the
// session. With no conflicts on record it is 1.0 by convention.
func (m *SessionMetrics) ConflictResolutionRate() float64 {
	if m.TotalConflicts == 0 {
		return 1.0
	}
	return float64(m.ResolvedConflicts) / float64(m.TotalConflicts)
}

// CoordinationEfficiency blends interaction success and conflict
// resolution into a single [0, 1] health score for the session.
func (m *SessionMetrics) CoordinationEfficiency() float64 {
	if m.TotalInteractions == 0 {
		return 1.0
	}
	successRate := float64(m.SuccessfulInteractions) / float64(m.TotalInteractions)
	return (successRate + m.ConflictResolutionRate()) / 2
}
