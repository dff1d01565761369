// Package session owns all per-session coordination state: active
// delegations, inter-worker messages, shared context, conflict history,
// and aggregate metrics. Sessions are exclusively owned by the
// Coordinator; every other component goes through its operations and
// never holds a reference into session internals.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strray/strray/internal/conflict"
	"github.com/strray/strray/internal/state"
	"github.com/strray/strray/pkg/models"
)

var (
	// ErrInvalidSessionID is returned when an operation is given an
	// empty or blank session id.
	ErrInvalidSessionID = errors.New("invalid session id")
	// ErrSessionNotFound is returned by write operations that require
	// an existing session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoSharedContext is returned when conflict resolution is
	// requested over a key with no history.
	ErrNoSharedContext = errors.New("no shared context under key")
)

// DefaultTTL is the session time-to-live applied when none is
// configured.
const DefaultTTL = 30 * time.Minute

// defaultActiveWorkers is the fixed worker set every new session
// starts with.
var defaultActiveWorkers = []string{"orchestrator", "architect", "code-reviewer"}

// AuthorityFn reports whether a worker is the designated authority for
// a shared-context key. Used by expert_priority resolution.
type AuthorityFn func(worker, key string) bool

// session is the per-id coordination state. All fields are guarded by
// the Coordinator's lock.
type session struct {
	id           string
	createdAt    time.Time
	lastActivity time.Time
	ttl          time.Duration

	delegations   map[string]models.DelegationRecord
	interactions  map[string][]models.Interaction
	conflicts     []models.ConflictRecord
	activeWorkers map[string]struct{}
	messages      []models.Message
	shared        map[string][]models.ContextEntry

	metrics       models.SessionMetrics
	responseTotal time.Duration
	responseCount int
}

// Config contains the Coordinator's collaborators and tuning.
type Config struct {
	// Store persists session substate; nil disables persistence.
	Store state.KVStore
	// Authority designates expert workers for conflict keys; nil
	// means no worker is authoritative.
	Authority AuthorityFn
	// TTL is the time-to-live stamped on new sessions. Zero means
	// DefaultTTL.
	TTL time.Duration
	// ActiveWorkers overrides the default initial worker set.
	ActiveWorkers []string
}

// Coordinator is the exclusive owner of all session state.
type Coordinator struct {
	cfg      Config
	sessions map[string]*session
	mu       sync.Mutex
}

// NewCoordinator creates a Coordinator with the given configuration.
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.ActiveWorkers == nil {
		cfg.ActiveWorkers = defaultActiveWorkers
	}
	return &Coordinator{
		cfg:      cfg,
		sessions: make(map[string]*session),
	}
}

// validateID rejects empty or blank session ids before any state is
// touched.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	return nil
}

// InitializeSession creates the session, overwriting any existing one
// under the same id. Callers needing idempotence must check Exists
// first; the overwrite is deliberate.
func (c *Coordinator) InitializeSession(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	now := time.Now()
	s := &session{
		id:            id,
		createdAt:     now,
		lastActivity:  now,
		ttl:           c.cfg.TTL,
		delegations:   make(map[string]models.DelegationRecord),
		interactions:  make(map[string][]models.Interaction),
		activeWorkers: make(map[string]struct{}),
		shared:        make(map[string][]models.ContextEntry),
	}
	for _, w := range c.cfg.ActiveWorkers {
		s.activeWorkers[w] = struct{}{}
	}

	c.mu.Lock()
	c.sessions[id] = s
	c.mu.Unlock()
	return nil
}

// Exists reports whether a session is currently tracked.
func (c *Coordinator) Exists(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[id]
	return ok
}

// RegisterDelegation inserts a delegation into the session's active map
// and unions its workers into the active-worker set.
func (c *Coordinator) RegisterDelegation(id string, record models.DelegationRecord) error {
	if err := validateID(id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.delegations[record.ID] = record
	for _, w := range record.Workers {
		s.activeWorkers[w] = struct{}{}
	}
	s.metrics.TotalDelegations++
	s.lastActivity = time.Now()

	c.persistLocked(s)
	return nil
}

// RecordInteraction appends to a worker's interaction log, stamps the
// current time, and updates aggregate metrics. A missing session is a
// silent no-op: interaction logging must never block execution.
func (c *Coordinator) RecordInteraction(id, worker string, in models.Interaction) error {
	if err := validateID(id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return nil
	}

	in.At = time.Now()
	s.interactions[worker] = append(s.interactions[worker], in)

	s.metrics.TotalInteractions++
	if in.Success {
		s.metrics.SuccessfulInteractions++
	} else {
		s.metrics.FailedInteractions++
	}
	if in.Duration > 0 {
		s.responseTotal += in.Duration
		s.responseCount++
		s.metrics.AvgResponseTime = s.responseTotal / time.Duration(s.responseCount)
	}
	s.lastActivity = in.At

	c.persistLocked(s)
	return nil
}

// SendMessage queues a message for a worker within the session.
func (c *Coordinator) SendMessage(id, from, to, payload string, priority models.MessagePriority) error {
	if err := validateID(id); err != nil {
		return err
	}
	if priority == "" {
		priority = models.PriorityNormal
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.messages = append(s.messages, models.Message{
		ID:       uuid.New().String()[:8],
		From:     from,
		To:       to,
		Payload:  payload,
		Priority: priority,
		SentAt:   time.Now(),
	})
	s.lastActivity = time.Now()
	return nil
}

// ReceiveMessages returns and removes all messages addressed to the
// worker. Delivery is at-most-once per call: a caller that crashes
// after removal but before processing loses those messages. That is a
// known limitation, not a bug to fix here.
func (c *Coordinator) ReceiveMessages(id, worker string) ([]models.Message, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}

	var delivered []models.Message
	remaining := s.messages[:0]
	for _, m := range s.messages {
		if m.To == worker {
			delivered = append(delivered, m)
		} else {
			remaining = append(remaining, m)
		}
	}
	s.messages = remaining
	if len(delivered) > 0 {
		s.lastActivity = time.Now()
	}
	return delivered, nil
}

// ShareContext appends a timestamped, attributed entry to the key's
// history. Histories are append-only; nothing is ever overwritten.
func (c *Coordinator) ShareContext(id, key, value, from string) error {
	if err := validateID(id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.shared[key] = append(s.shared[key], models.ContextEntry{
		Value:  value,
		Worker: from,
		At:     time.Now(),
	})
	s.lastActivity = time.Now()

	c.persistLocked(s)
	return nil
}

// GetSharedContext returns the most recent entry under the key.
// A missing session or key yields an empty result, not an error.
func (c *Coordinator) GetSharedContext(id, key string) (models.ContextEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return models.ContextEntry{}, false
	}
	history := s.shared[key]
	if len(history) == 0 {
		return models.ContextEntry{}, false
	}
	return history[len(history)-1], true
}

// ContextHistory returns a copy of the full history under the key.
func (c *Coordinator) ContextHistory(id, key string) []models.ContextEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return nil
	}
	return append([]models.ContextEntry{}, s.shared[key]...)
}

// ResolveConflict applies the policy over the history stored under the
// key and records a ConflictRecord referencing the contributors. An
// unresolved consensus stays unresolved; escalation is the caller's
// decision.
func (c *Coordinator) ResolveConflict(id, key string, policy models.ConflictPolicy) (models.ConflictRecord, error) {
	if err := validateID(id); err != nil {
		return models.ConflictRecord{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return models.ConflictRecord{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	history := s.shared[key]
	if len(history) == 0 {
		return models.ConflictRecord{}, fmt.Errorf("%w: %s", ErrNoSharedContext, key)
	}

	entries := make([]conflict.Entry, 0, len(history))
	for _, e := range history {
		authoritative := c.cfg.Authority != nil && c.cfg.Authority(e.Worker, key)
		entries = append(entries, conflict.Entry{
			Value:         e.Value,
			Worker:        e.Worker,
			Authoritative: authoritative,
		})
	}

	outcome := conflict.Resolve(policy, entries)
	record := models.ConflictRecord{
		Key:        key,
		Policy:     policy,
		Workers:    outcome.Workers,
		Resolved:   outcome.Resolved,
		Resolution: outcome.Value,
		At:         time.Now(),
	}

	s.conflicts = append(s.conflicts, record)
	s.metrics.TotalConflicts++
	if record.Resolved {
		s.metrics.ResolvedConflicts++
	}
	s.lastActivity = record.At

	c.persistLocked(s)
	return record, nil
}

// CompleteDelegation removes the delegation from the active map.
// Completing an already-removed delegation, or one in a session that
// has been cleaned up, is a no-op.
func (c *Coordinator) CompleteDelegation(id, delegationID string, result *models.DelegationResult) error {
	if err := validateID(id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[id]
	if !ok {
		return nil
	}
	if _, ok := s.delegations[delegationID]; !ok {
		return nil
	}

	delete(s.delegations, delegationID)
	s.lastActivity = time.Now()

	c.persistLocked(s)
	return nil
}

// CleanupSession clears all session substructures and removes the
// session entirely, including its persisted substate.
func (c *Coordinator) CleanupSession(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()

	if c.cfg.Store != nil {
		if err := c.cfg.Store.Clear(state.SessionPrefix(id)); err != nil {
			log.Printf("[session] WARNING: clear persisted state for %s: %v", id, err)
		}
	}
	return nil
}

// SessionIDs returns the ids of all tracked sessions.
func (c *Coordinator) SessionIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}

// persistLocked writes the session's metrics and shared context to the
// configured store. Persistence is best-effort: failures are logged and
// never surface to coordination callers. Callers must hold c.mu.
func (c *Coordinator) persistLocked(s *session) {
	if c.cfg.Store == nil {
		return
	}

	if data, err := json.Marshal(s.metrics); err == nil {
		if err := c.cfg.Store.Set(state.SessionKey(s.id, "metrics"), string(data)); err != nil {
			log.Printf("[session] WARNING: persist metrics for %s: %v", s.id, err)
		}
	}
	if data, err := json.Marshal(s.shared); err == nil {
		if err := c.cfg.Store.Set(state.SessionKey(s.id, "context"), string(data)); err != nil {
			log.Printf("[session] WARNING: persist context for %s: %v", s.id, err)
		}
	}
}
