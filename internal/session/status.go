package session

import (
	"sort"
	"time"

	"github.com/strray/strray/pkg/models"
)

// Status is a read-only snapshot of one session, safe to hand outside
// the Coordinator.
type Status struct {
	// ID is the session identifier.
	ID string `json:"id"`
	// CreatedAt is when the session was initialized.
	CreatedAt time.Time `json:"created_at"`
	// LastActivity is when the session was last touched.
	LastActivity time.Time `json:"last_activity"`
	// TTL is the session's time-to-live.
	TTL time.Duration `json:"ttl"`
	// ActiveDelegations lists the ids still in the active map.
	ActiveDelegations []string `json:"active_delegations"`
	// ActiveWorkers lists the workers attached to the session.
	ActiveWorkers []string `json:"active_workers"`
	// PendingMessages is the current queue depth.
	PendingMessages int `json:"pending_messages"`
	// Conflicts is the session's conflict history.
	Conflicts []models.ConflictRecord `json:"conflicts,omitempty"`
	// Metrics is a copy of the aggregate metrics.
	Metrics models.SessionMetrics `json:"metrics"`
}

// Status returns a snapshot of the session. A missing session yields a
// zero snapshot and false rather than an error.
func (c *Coordinator) Status(id string) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return Status{}, false
	}

	delegations := make([]string, 0, len(s.delegations))
	for did := range s.delegations {
		delegations = append(delegations, did)
	}
	sort.Strings(delegations)

	workers := make([]string, 0, len(s.activeWorkers))
	for w := range s.activeWorkers {
		workers = append(workers, w)
	}
	sort.Strings(workers)

	return Status{
		ID:                s.id,
		CreatedAt:         s.createdAt,
		LastActivity:      s.lastActivity,
		TTL:               s.ttl,
		ActiveDelegations: delegations,
		ActiveWorkers:     workers,
		PendingMessages:   len(s.messages),
		Conflicts:         append([]models.ConflictRecord{}, s.conflicts...),
		Metrics:           s.metrics,
	}, true
}

// Metrics returns a copy of the session's aggregate metrics.
func (c *Coordinator) Metrics(id string) (models.SessionMetrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return models.SessionMetrics{}, false
	}
	return s.metrics, true
}

// Interactions returns a copy of one worker's interaction log.
func (c *Coordinator) Interactions(id, worker string) []models.Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return nil
	}
	return append([]models.Interaction{}, s.interactions[worker]...)
}
