package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strray/strray/internal/events"
	"github.com/strray/strray/internal/session"
)

func TestMonitor_TabSwitching(t *testing.T) {
	m := NewMonitor(nil, nil, time.Second)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.(*Monitor).currentTab != TabEvents {
		t.Errorf("currentTab after tab = %d, want %d", model.(*Monitor).currentTab, TabEvents)
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.(*Monitor).currentTab != TabSessions {
		t.Errorf("currentTab after second tab = %d, want %d", model.(*Monitor).currentTab, TabSessions)
	}
}

func TestMonitor_EventMsgAppendsToLog(t *testing.T) {
	m := NewMonitor(nil, nil, time.Second)

	m.Update(EventMsg{Event: events.Event{
		Component: "delegate",
		Action:    "score",
		Status:    events.StatusOK,
		At:        time.Now(),
	}})

	if len(m.log) != 1 {
		t.Fatalf("log has %d entries, want 1", len(m.log))
	}
	m.currentTab = TabEvents
	if view := m.viewEvents(); !strings.Contains(view, "delegate/score") {
		t.Errorf("events view %q missing tuple", view)
	}
}

func TestMonitor_SnapshotSessions(t *testing.T) {
	coord := session.NewCoordinator(session.Config{})
	if err := coord.InitializeSession("sess-1"); err != nil {
		t.Fatal(err)
	}

	m := NewMonitor(coord, nil, time.Second)
	m.snapshotSessions()

	if len(m.sessions) != 1 || m.sessions[0].ID != "sess-1" {
		t.Errorf("sessions = %+v, want one snapshot for sess-1", m.sessions)
	}
	if view := m.viewSessions(); !strings.Contains(view, "sess-1") {
		t.Errorf("sessions view %q missing session id", view)
	}
}

func TestMonitor_QuitKey(t *testing.T) {
	m := NewMonitor(nil, nil, time.Second)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}
	if !m.quitting {
		t.Error("quitting = false after q")
	}
}
