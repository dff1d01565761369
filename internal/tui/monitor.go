// Package tui provides the terminal monitor for live delegation and
// session activity.
package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/strray/strray/internal/events"
	"github.com/strray/strray/internal/session"
)

// Tab constants for navigation.
const (
	TabSessions = iota
	TabEvents
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC857")).
			Bold(true)
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#96E6A1"))
	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// EventMsg wraps one observability tuple for the monitor.
type EventMsg struct {
	Event events.Event
}

// refreshMsg triggers a session snapshot refresh.
type refreshMsg struct{}

// Monitor is the bubbletea model for the strray monitor.
type Monitor struct {
	// coord supplies session snapshots.
	coord *session.Coordinator
	// stream delivers observability tuples.
	stream <-chan events.Event
	// refresh is the snapshot refresh interval.
	refresh time.Duration

	spinner    spinner.Model
	currentTab int
	sessions   []session.Status
	log        []events.Event
	width      int
	height     int
	quitting   bool
}

// NewMonitor creates a Monitor over the given coordinator and event
// stream.
func NewMonitor(coord *session.Coordinator, stream <-chan events.Event, refresh time.Duration) *Monitor {
	if refresh <= 0 {
		refresh = 100 * time.Millisecond
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#45B7D1"))
	return &Monitor{
		coord:   coord,
		stream:  stream,
		refresh: refresh,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent(), m.tick())
}

// Update implements tea.Model.
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.currentTab = (m.currentTab + 1) % 2
		case "1":
			m.currentTab = TabSessions
		case "2":
			m.currentTab = TabEvents
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case EventMsg:
		m.log = append(m.log, msg.Event)
		return m, m.waitForEvent()

	case refreshMsg:
		m.snapshotSessions()
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *Monitor) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content string
	switch m.currentTab {
	case TabSessions:
		content = m.viewSessions()
	default:
		content = m.viewEvents()
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", m.viewHeader(), content, m.viewFooter())
}

// viewHeader renders the title and tab bar.
func (m *Monitor) viewHeader() string {
	title := titleStyle.Render("strray") + " " + subtitleStyle.Render("delegation monitor") +
		" " + m.spinner.View()

	tabs := []string{"Sessions", "Events"}
	var bar string
	for i, tab := range tabs {
		if i == m.currentTab {
			bar += activeTabStyle.Render("["+tab+"]") + " "
		} else {
			bar += tabStyle.Render(" "+tab+" ") + " "
		}
	}
	return title + "\n" + bar
}

// viewSessions renders the sessions tab.
func (m *Monitor) viewSessions() string {
	if len(m.sessions) == 0 {
		return dimStyle.Render("No active sessions")
	}

	var view string
	for _, s := range m.sessions {
		rate := s.Metrics.ConflictResolutionRate()
		view += fmt.Sprintf("  %s  delegations:%d  workers:%d  conflicts:%d  resolution:%.0f%%  idle:%s\n",
			titleStyle.Render(s.ID),
			len(s.ActiveDelegations),
			len(s.ActiveWorkers),
			len(s.Conflicts),
			rate*100,
			time.Since(s.LastActivity).Round(time.Second))
	}
	return view
}

// viewEvents renders the events tab, most recent last.
func (m *Monitor) viewEvents() string {
	if len(m.log) == 0 {
		return dimStyle.Render("No events yet")
	}

	start := 0
	if max := m.height - 8; max > 0 && len(m.log) > max {
		start = len(m.log) - max
	} else if m.height == 0 && len(m.log) > 20 {
		start = len(m.log) - 20
	}

	var view string
	for _, e := range m.log[start:] {
		glyph := okStyle.Render("✓")
		if e.Status == events.StatusFailed {
			glyph = failStyle.Render("✗")
		}
		view += fmt.Sprintf("  %s %s %s/%s\n",
			dimStyle.Render(e.At.Format("15:04:05")), glyph, e.Component, e.Action)
	}
	return view
}

// viewFooter renders the help text.
func (m *Monitor) viewFooter() string {
	return dimStyle.Render("Press 1/2 or Tab to switch tabs | q to quit")
}

// snapshotSessions refreshes the session list from the coordinator.
func (m *Monitor) snapshotSessions() {
	if m.coord == nil {
		return
	}
	ids := m.coord.SessionIDs()
	sort.Strings(ids)

	snaps := make([]session.Status, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.coord.Status(id); ok {
			snaps = append(snaps, s)
		}
	}
	m.sessions = snaps
}

// waitForEvent reads the next observability tuple off the stream.
func (m *Monitor) waitForEvent() tea.Cmd {
	if m.stream == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-m.stream
		if !ok {
			return nil
		}
		return EventMsg{Event: e}
	}
}

// tick schedules the next session snapshot.
func (m *Monitor) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// Run starts the monitor.
func Run(coord *session.Coordinator, stream <-chan events.Event, refresh time.Duration) error {
	p := tea.NewProgram(NewMonitor(coord, stream, refresh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
