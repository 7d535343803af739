package tui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysift-io/skysift/cli/render"
	"github.com/skysift-io/skysift/types"
)

// EventMsg wraps one run event for the Bubble Tea loop.
type EventMsg struct {
	Event types.Event
}

// StreamClosedMsg signals the run event stream has been drained.
type StreamClosedMsg struct{}

// Result tabs.
const (
	tabOverview = iota
	tabWindows
	tabCandidates
	tabCount
)

var tabTitles = []string{"Overview", "Windows", "Candidates"}

// Model is the Bubble Tea model for the analysis shell.
type Model struct {
	input  string
	preset string
	events <-chan types.Event

	// Running phase state.
	bar      progress.Model
	percent  int
	current  string
	stageLog []string

	// Result phase state.
	result  *types.AnalysisResult
	outcome types.OutcomeStatus
	done    bool
	tab     int

	width    int
	height   int
	quitting bool
}

// NewModel creates the shell model for one run.
func NewModel(input, preset string, events <-chan types.Event) Model {
	return Model{
		input:  input,
		preset: preset,
		events: events,
		bar:    progress.New(progress.WithDefaultGradient()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent blocks on the next run event. Reading one event per command
// keeps channel order intact through the single-threaded update loop.
func waitForEvent(events <-chan types.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return StreamClosedMsg{}
		}
		return EventMsg{Event: ev}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.NextTab) && m.done:
			m.tab = (m.tab + 1) % tabCount
		case key.Matches(msg, keys.PrevTab) && m.done:
			m.tab = (m.tab + tabCount - 1) % tabCount
		}
		return m, nil

	case EventMsg:
		m.apply(msg.Event)
		return m, waitForEvent(m.events)

	case StreamClosedMsg:
		return m, nil
	}

	return m, nil
}

// apply folds one run event into the model. Events arrive in emission
// order; progress never decreases because the runner enforces it.
func (m *Model) apply(ev types.Event) {
	switch ev.Type {
	case types.EventTypeStage:
		m.current = ev.Stage
		m.stageLog = append(m.stageLog, ev.Stage)
	case types.EventTypeProgress:
		m.percent = ev.Percent
	case types.EventTypeDone:
		m.result = ev.Result
		m.outcome = ev.Outcome
		m.done = true
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.done {
		return m.viewResult()
	}
	return m.viewRunning()
}

func (m Model) viewRunning() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("skysift · analyzing"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("File:"), m.input))
	b.WriteString(fmt.Sprintf("%s %s\n\n", LabelStyle.Render("Preset:"), m.preset))

	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	b.WriteString(fmt.Sprintf("  %d%%\n\n", m.percent))

	b.WriteString(StageStyle.Render("▸ " + m.current))
	b.WriteString("\n\n")
	for _, s := range m.stageLog {
		b.WriteString(MutedStyle.Render("  · " + s))
		b.WriteString("\n")
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return BoxStyle.Render(b.String()) + "\n" + help
}

func (m Model) viewResult() string {
	if m.result == nil || m.result.Failed() {
		msg := "run failed"
		if m.result != nil {
			msg = m.result.ErrorMessage
		}
		banner := ErrorStyle.Render("✗ " + msg)
		if m.outcome == types.OutcomeCanceled {
			banner = ErrorStyle.Render("✗ run canceled")
		}
		help := HelpStyle.Render("Press q or Ctrl+C to quit")
		return BoxStyle.Render(banner) + "\n" + help
	}

	var content string
	switch m.tab {
	case tabOverview:
		content = m.renderOverview()
	case tabWindows:
		content = m.renderWindows()
	case tabCandidates:
		content = m.renderCandidates()
	}

	help := HelpStyle.Render("tab/shift+tab: switch view · q: quit")
	return m.renderTabBar() + "\n" + BoxStyle.Render(content) + "\n" + help
}

func (m Model) renderTabBar() string {
	parts := make([]string, 0, tabCount)
	for i, title := range tabTitles {
		if i == m.tab {
			parts = append(parts, ActiveTabStyle.Render(title))
		} else {
			parts = append(parts, TabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderOverview() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Overview"))
	b.WriteString("\n\n")

	for _, entry := range m.result.Metadata {
		b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render(entry.Label+":"), entry.Value))
	}
	b.WriteString("\n")

	for _, a := range m.result.Artifacts() {
		line := render.ArtifactLine(a)
		if line == render.Placeholder {
			b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render(a.Title+":"), MutedStyle.Render(line)))
		} else {
			b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render(a.Title+":"), line))
		}
	}

	return b.String()
}

func (m Model) renderWindows() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Ranked windows"))
	b.WriteString("\n\n")
	b.WriteString(tabulate(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "WINDOW\tSCORE\tCLUSTER")
		for _, ws := range m.result.WindowScores {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ws.WindowID, ws.Score, ws.Cluster)
		}
	}))
	return b.String()
}

func (m Model) renderCandidates() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Candidates"))
	b.WriteString("\n\n")
	b.WriteString(tabulate(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tFREQUENCY\tSTATUS")
		for _, c := range m.result.Candidates {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Frequency, c.Status)
		}
	}))
	return b.String()
}

func tabulate(fill func(w *tabwriter.Writer)) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fill(w)
	_ = w.Flush()
	return sb.String()
}
