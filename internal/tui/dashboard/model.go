// ============================================================================
// schedclients - Fleet Scheduler Client Library
// ============================================================================
//
// Package:     dashboard
// Description: Bubbletea model of the live fleet dashboard
// Created:     2026-03-10
// License:     MIT
// ============================================================================

// Package dashboard is a terminal dashboard that follows every update stream
// of a client fleet.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/msto63/schedclients/pkg/subscription"
)

const (
	// maxLogLines bounds the update log
	maxLogLines = 500
	// queueSize is the number of updates buffered for the UI
	queueSize = 256

	refreshInterval = time.Second
)

// Source is what the dashboard follows. *clients.Fleet implements it.
type Source interface {
	Observe(fn func(clients.Update), kinds ...string) (remove func())
	Streamers() map[string]clients.Streamer
}

// Message types
type updateMsg clients.Update
type refreshMsg time.Time
type closedMsg struct{}

// Model is the Bubbletea model of the dashboard
type Model struct {
	source  Source
	updates chan clients.Update
	remove  func()

	width  int
	height int

	spinner  spinner.Model
	viewport viewport.Model

	states    map[string]subscription.State
	scheduler *scheduling.SchedulerStateDto
	agents    map[int32]scheduling.AgentDto
	jobs      []scheduling.JobSummaryDto
	services  map[int32]scheduling.ServiceStateDto
	log       []string
	received  uint64
	dropped   atomic.Uint64
}

// New creates a dashboard model observing source. Detach with Close when the
// program has ended.
func New(source Source) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := &Model{
		source:   source,
		updates:  make(chan clients.Update, queueSize),
		spinner:  s,
		viewport: viewport.New(80, 10),
		states:   make(map[string]subscription.State),
		agents:   make(map[int32]scheduling.AgentDto),
		services: make(map[int32]scheduling.ServiceStateDto),
	}
	m.refreshStates()

	m.remove = source.Observe(func(u clients.Update) {
		select {
		case m.updates <- u:
		default:
			m.dropped.Add(1)
		}
	})
	return m
}

// Close stops observing the source
func (m *Model) Close() {
	if m.remove != nil {
		m.remove()
		m.remove = nil
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForUpdate,
		refresh(),
	)
}

func (m *Model) waitForUpdate() tea.Msg {
	u, ok := <-m.updates
	if !ok {
		return closedMsg{}
	}
	return updateMsg(u)
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "c":
			m.log = nil
			m.viewport.SetContent("")
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-lipgloss.Height(m.renderTop())-4, 3)
		m.viewport.SetContent(strings.Join(m.log, "\n"))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshMsg:
		m.refreshStates()
		return m, refresh()

	case updateMsg:
		m.apply(clients.Update(msg))
		return m, m.waitForUpdate

	case closedMsg:
		return m, nil
	}

	return m, nil
}

func (m *Model) refreshStates() {
	for name, s := range m.source.Streamers() {
		m.states[name] = s.SubscriptionState()
	}
}

// apply folds one update into the dashboard state and appends it to the log
func (m *Model) apply(u clients.Update) {
	m.received++

	switch p := u.Payload.(type) {
	case *scheduling.AgentDto:
		m.agents[p.AgentID] = *p
	case *scheduling.JobStateDto:
		m.jobs = append(m.jobs[:0], p.JobSummaries...)
	case *scheduling.SchedulerStateDto:
		m.scheduler = p
	case *scheduling.ServiceStateDto:
		if p.ServiceStatus == scheduling.ServiceStatusComplete {
			delete(m.services, p.TaskID)
		} else {
			m.services[p.TaskID] = *p
		}
	}

	m.log = append(m.log, u.String())
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// connecting reports whether any stream is not yet delivering
func (m *Model) connecting() bool {
	for _, s := range m.states {
		if s != subscription.StateStreaming {
			return true
		}
	}
	return false
}

// View renders the dashboard
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTop())
	b.WriteString("\n")
	b.WriteString(LogStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		RenderKeyHint("↑/↓", "scroll"),
		RenderKeyHint("c", "clear log"),
		RenderKeyHint("q", "quit"),
	}, "  "))
	return b.String()
}

func (m *Model) renderTop() string {
	title := TitleStyle.Render("Fleet Dashboard")
	if m.connecting() {
		title += "  " + m.spinner.View() + MutedStyle.Render(" connecting")
	}
	status := MutedStyle.Render(fmt.Sprintf("updates %d  dropped %d", m.received, m.dropped.Load()))

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		PanelStyle.Render(m.renderStreams()),
		PanelStyle.Render(m.renderScheduler()),
		PanelStyle.Render(m.renderAgents()),
	)
	lower := lipgloss.JoinHorizontal(lipgloss.Top,
		PanelStyle.Render(m.renderJobs()),
		PanelStyle.Render(m.renderServices()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title+"  "+status, panels, lower)
}

func (m *Model) renderStreams() string {
	names := make([]string, 0, len(m.states))
	for name := range m.states {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{HeaderStyle.Render("Streams")}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%-11s %s", name, renderState(m.states[name])))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderScheduler() string {
	lines := []string{HeaderStyle.Render("Scheduler")}
	if m.scheduler == nil {
		return strings.Join(append(lines, MutedStyle.Render("no state yet")), "\n")
	}
	s := m.scheduler
	lines = append(lines,
		fmt.Sprintf("cycle     %d", s.Cycle),
		fmt.Sprintf("active    %d", s.ActiveJobCount),
		fmt.Sprintf("agents    %d", s.AgentCount),
		fmt.Sprintf("accepting %t", s.AcceptingNewJobs),
	)
	if s.SpotManager != nil {
		lines = append(lines, fmt.Sprintf("spots     %v", s.SpotManager.ReservedSpotIDs))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderAgents() string {
	ids := make([]int32, 0, len(m.agents))
	for id := range m.agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	lines := []string{HeaderStyle.Render("Agents")}
	for _, id := range ids {
		a := m.agents[id]
		lines = append(lines, fmt.Sprintf("%-7s node %-3d %3.0f%% %s",
			a.Alias, a.CurrentNodeID, a.BatteryChargePercentage, a.LifetimeState))
	}
	if len(ids) == 0 {
		lines = append(lines, MutedStyle.Render("none"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderJobs() string {
	lines := []string{HeaderStyle.Render("Jobs")}
	for _, j := range m.jobs {
		lines = append(lines, fmt.Sprintf("#%-4d %-12s agent %-3d %d tasks",
			j.JobID, j.JobStatus, j.AssignedAgentID, len(j.Tasks)))
	}
	if len(m.jobs) == 0 {
		lines = append(lines, MutedStyle.Render("none"))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderServices() string {
	ids := make([]int32, 0, len(m.services))
	for id := range m.services {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	lines := []string{HeaderStyle.Render("Service requests")}
	for _, id := range ids {
		s := m.services[id]
		lines = append(lines, fmt.Sprintf("task %-4d agent %-3d node %-3d %s %s",
			s.TaskID, s.AgentID, s.NodeID, s.ServiceType, s.ServiceStatus))
	}
	if len(ids) == 0 {
		lines = append(lines, MutedStyle.Render("none"))
	}
	return strings.Join(lines, "\n")
}

// Run shows the dashboard until the user quits or ctx is done
func Run(ctx context.Context, source Source) error {
	m := New(source)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
