package session

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/strray/strray/internal/events"
)

// Default lifecycle tuning. Sessions die on TTL regardless of recent
// activity; idleness and the LRU cap are independent triggers.
const (
	DefaultIdleTimeout  = 10 * time.Minute
	DefaultReapInterval = 30 * time.Second
	DefaultMaxSessions  = 100
)

// sessionMeta is the Manager's own bookkeeping for one session. It is
// deliberately separate from the Coordinator's state: the reaper only
// needs timestamps, never session internals.
type sessionMeta struct {
	createdAt    time.Time
	lastActivity time.Time
	ttl          time.Duration
}

// ManagerConfig tunes the lifecycle Manager.
type ManagerConfig struct {
	// TTL is the default session time-to-live. Zero means DefaultTTL.
	TTL time.Duration
	// IdleTimeout expires sessions with no recent activity.
	IdleTimeout time.Duration
	// ReapInterval is how often the background sweep runs.
	ReapInterval time.Duration
	// MaxSessions caps tracked sessions; the least-recently-active
	// sessions beyond the cap are evicted.
	MaxSessions int
	// Events receives a tuple per cleanup; nil disables emission.
	Events *events.Emitter
}

// Manager is the background reaper for session state. Expiry (TTL),
// idleness, and LRU eviction all route through the same single-session
// cleanup path so teardown is always consistent.
type Manager struct {
	cfg   ManagerConfig
	coord *Coordinator

	meta map[string]*sessionMeta
	mu   sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a Manager reaping sessions owned by coord.
func NewManager(coord *Coordinator, cfg ManagerConfig) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = DefaultReapInterval
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	return &Manager{
		cfg:   cfg,
		coord: coord,
		meta:  make(map[string]*sessionMeta),
	}
}

// Track registers lifecycle metadata for a session.
func (m *Manager) Track(id string) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[id] = &sessionMeta{
		createdAt:    now,
		lastActivity: now,
		ttl:          m.cfg.TTL,
	}
}

// Touch refreshes a session's last-activity timestamp.
func (m *Manager) Touch(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meta, ok := m.meta[id]; ok {
		meta.lastActivity = time.Now()
	}
}

// TrackedCount returns the number of sessions under management.
func (m *Manager) TrackedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.meta)
}

// Start launches the background sweep. Stop cancels it.
func (m *Manager) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.cfg.ReapInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep(time.Now())
			}
		}
	}()
}

// Stop cancels the background sweep and waits for it to exit.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}

// Sweep runs one reaping pass at the given instant: TTL-expired
// sessions first (TTL wins even when activity is recent), then idle
// sessions, then LRU eviction down to the configured cap.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()

	var doomed []string
	reasons := make(map[string]string)
	for id, meta := range m.meta {
		switch {
		case now.Sub(meta.createdAt) > meta.ttl:
			doomed = append(doomed, id)
			reasons[id] = "expired"
		case now.Sub(meta.lastActivity) > m.cfg.IdleTimeout:
			doomed = append(doomed, id)
			reasons[id] = "idle"
		}
	}

	survivors := len(m.meta) - len(doomed)
	if survivors > m.cfg.MaxSessions {
		var candidates []string
		for id := range m.meta {
			if _, gone := reasons[id]; !gone {
				candidates = append(candidates, id)
			}
		}
		// Least recently active first.
		sort.Slice(candidates, func(i, j int) bool {
			return m.meta[candidates[i]].lastActivity.Before(m.meta[candidates[j]].lastActivity)
		})
		for _, id := range candidates[:survivors-m.cfg.MaxSessions] {
			doomed = append(doomed, id)
			reasons[id] = "evicted"
		}
	}
	m.mu.Unlock()

	for _, id := range doomed {
		m.cleanupOne(id, reasons[id])
	}
	return len(doomed)
}

// Cleanup tears down one session on operator request.
func (m *Manager) Cleanup(id string) error {
	return m.cleanupOne(id, "manual")
}

// CleanupAll tears down every tracked session. This is the emergency
// path; it reuses the single-session teardown for consistency.
func (m *Manager) CleanupAll() int {
	m.mu.Lock()
	ids := make([]string, 0, len(m.meta))
	for id := range m.meta {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.cleanupOne(id, "emergency")
	}
	return len(ids)
}

// cleanupOne is the single teardown path every trigger routes through.
func (m *Manager) cleanupOne(id, reason string) error {
	if err := m.coord.CleanupSession(id); err != nil {
		log.Printf("[lifecycle] cleanup %s failed: %v", id, err)
		m.cfg.Events.Emit("lifecycle", "cleanup_session", events.StatusFailed, map[string]string{
			"session": id,
			"reason":  reason,
		})
		return err
	}

	m.mu.Lock()
	delete(m.meta, id)
	m.mu.Unlock()

	m.cfg.Events.Emit("lifecycle", "cleanup_session", events.StatusOK, map[string]string{
		"session": id,
		"reason":  reason,
	})
	return nil
}
