package session

import (
	"testing"
	"time"
)

func TestManager_SweepExpiresByTTL(t *testing.T) {
	c := NewCoordinator(Config{TTL: 50 * time.Millisecond})
	m := NewManager(c, ManagerConfig{TTL: 50 * time.Millisecond, IdleTimeout: time.Hour})

	_ = c.InitializeSession("old")
	m.Track("old")

	// Activity stays recent; TTL must still win.
	m.Touch("old")

	reaped := m.Sweep(time.Now().Add(time.Second))
	if reaped != 1 {
		t.Fatalf("Sweep() reaped %d, want 1", reaped)
	}
	if c.Exists("old") {
		t.Error("TTL-expired session survived sweep despite recent activity")
	}
	if m.TrackedCount() != 0 {
		t.Errorf("TrackedCount() = %d, want 0", m.TrackedCount())
	}
}

func TestManager_SweepExpiresIdleSessions(t *testing.T) {
	c := NewCoordinator(Config{TTL: time.Hour})
	m := NewManager(c, ManagerConfig{TTL: time.Hour, IdleTimeout: 50 * time.Millisecond})

	_ = c.InitializeSession("idle")
	m.Track("idle")

	reaped := m.Sweep(time.Now().Add(time.Minute))
	if reaped != 1 {
		t.Fatalf("Sweep() reaped %d, want 1", reaped)
	}
	if c.Exists("idle") {
		t.Error("idle session survived sweep")
	}
}

func TestManager_SweepKeepsHealthySessions(t *testing.T) {
	c := NewCoordinator(Config{TTL: time.Hour})
	m := NewManager(c, ManagerConfig{TTL: time.Hour, IdleTimeout: time.Hour})

	_ = c.InitializeSession("healthy")
	m.Track("healthy")

	if reaped := m.Sweep(time.Now()); reaped != 0 {
		t.Errorf("Sweep() reaped %d, want 0", reaped)
	}
	if !c.Exists("healthy") {
		t.Error("healthy session was reaped")
	}
}

func TestManager_LRUEvictionBeyondCap(t *testing.T) {
	c := NewCoordinator(Config{TTL: time.Hour})
	m := NewManager(c, ManagerConfig{TTL: time.Hour, IdleTimeout: time.Hour, MaxSessions: 2})

	for _, id := range []string{"a", "b", "c"} {
		_ = c.InitializeSession(id)
		m.Track(id)
		time.Sleep(2 * time.Millisecond)
	}
	// "a" is least recently active; refresh "b" and "c".
	m.Touch("b")
	m.Touch("c")

	reaped := m.Sweep(time.Now())
	if reaped != 1 {
		t.Fatalf("Sweep() reaped %d, want 1", reaped)
	}
	if c.Exists("a") {
		t.Error("least-recently-active session survived LRU eviction")
	}
	if !c.Exists("b") || !c.Exists("c") {
		t.Error("recently active sessions were evicted")
	}
}

func TestManager_ManualCleanup(t *testing.T) {
	c := NewCoordinator(Config{})
	m := NewManager(c, ManagerConfig{})

	_ = c.InitializeSession("s1")
	m.Track("s1")

	if err := m.Cleanup("s1"); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if c.Exists("s1") {
		t.Error("session survived manual cleanup")
	}
	if m.TrackedCount() != 0 {
		t.Errorf("TrackedCount() = %d, want 0", m.TrackedCount())
	}
}

func TestManager_EmergencyCleanupAll(t *testing.T) {
	c := NewCoordinator(Config{})
	m := NewManager(c, ManagerConfig{})

	for _, id := range []string{"a", "b", "c"} {
		_ = c.InitializeSession(id)
		m.Track(id)
	}

	if n := m.CleanupAll(); n != 3 {
		t.Errorf("CleanupAll() = %d, want 3", n)
	}
	for _, id := range []string{"a", "b", "c"} {
		if c.Exists(id) {
			t.Errorf("session %s survived emergency cleanup", id)
		}
	}
}
