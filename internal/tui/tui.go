// Package tui is the terminal rendition of the dashboard.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"dayflow/internal/format"
	"dayflow/internal/schedule"
	"dayflow/internal/timeline"
	"dayflow/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))

	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F1F5F9"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#94A3B8")).
			MarginTop(1)

	pastStyle = lipgloss.NewStyle().Faint(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

type tickMsg time.Time

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	sched    *schedule.Schedule
	engine   *timeline.Engine
	format   *format.Formatter
	loc      *time.Location
	now      func() time.Time
	interval time.Duration

	state  timeline.CycleState
	bar    progress.Model
	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLocation sets the display timezone.
func WithLocation(loc *time.Location) Option {
	return func(m *Model) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// WithInterval sets how often the model re-derives its state.
func WithInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// New returns a Model with its state computed for the current time.
func New(s *schedule.Schedule, e *timeline.Engine, f *format.Formatter, opts ...Option) Model {
	m := Model{
		sched:    s,
		engine:   e,
		format:   f,
		loc:      time.Local,
		now:      time.Now,
		interval: 30 * time.Second,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		width:    80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.state = m.engine.State(m.now().In(m.loc))
	return m
}

// State returns the state the model currently renders.
func (m Model) State() timeline.CycleState {
	return m.state
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-4, 10)
	case tickMsg:
		m.state = m.engine.State(m.now().In(m.loc))
		return m, m.tickCmd()
	}
	return m, nil
}

func (m Model) View() string {
	d := view.Build(m.sched, m.state, m.format)

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Title))
	if d.Subtitle != "" {
		b.WriteString(" " + mutedStyle.Render(d.Subtitle))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(d.Heading.Now+" · "+d.Date) + "  " + clockStyle.Render(d.Now) + "\n")
	b.WriteString(m.bar.ViewAs(d.Progress) + " " + mutedStyle.Render(d.ProgressLabel) + "\n\n")

	active := fmt.Sprintf("%s  %s %s\n%s · %s · %s",
		accent(d.Active.Accent).Bold(true).Render(d.Heading.InProgress),
		d.Active.Icon, d.Active.Title,
		d.Active.Range, d.Active.Duration, d.Remaining)
	for _, det := range d.Active.Details {
		active += "\n• " + det
	}
	active += "\n" + mutedStyle.Render(fmt.Sprintf("%s: %s %s (%s)", d.Heading.Next, d.Next.Icon, d.Next.Title, d.Next.Start))
	b.WriteString(boxStyle.BorderForeground(lipgloss.Color(d.Active.Accent)).Render(active) + "\n")

	b.WriteString(headingStyle.Render(d.Heading.Upcoming) + "\n")
	if d.AllDone {
		b.WriteString(d.Heading.AllDone + " " + mutedStyle.Render(d.Heading.Complete) + "\n")
	}
	for _, u := range d.Upcoming {
		line := fmt.Sprintf("%s  %s %s", u.Start, u.Icon, u.Title)
		if u.Summary != "" {
			line += "  " + mutedStyle.Render(u.Summary)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(headingStyle.Render(d.Heading.Focus) + "\n")
	tiles := make([]string, 0, len(d.Focus))
	for _, t := range d.Focus {
		tiles = append(tiles, accent(t.Accent).Render(t.Icon+" "+t.Label)+" "+mutedStyle.Render(t.Duration+" · "+t.Percent))
	}
	b.WriteString(strings.Join(tiles, "   ") + "\n")

	b.WriteString(headingStyle.Render(d.Heading.Timeline) + "\n")
	for _, it := range d.Timeline {
		marker := "·"
		switch {
		case it.Active:
			marker = "▶"
		case it.Past:
			marker = "✓"
		}
		line := fmt.Sprintf("%s %-22s %s %s", marker, it.Range, it.Icon, it.Title)
		switch {
		case it.Active:
			line = accent(it.Accent).Bold(true).Render(line)
		case it.Past:
			line = pastStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render("q: quit"))
	return b.String()
}

func accent(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// Run shows the dashboard until the user quits. When out is not a terminal a
// single frame is printed instead.
func Run(m Model, out *os.File) error {
	if !isatty.IsTerminal(out.Fd()) && !isatty.IsCygwinTerminal(out.Fd()) {
		return Frame(m, out)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(out))
	_, err := p.Run()
	return err
}

// Frame writes one rendering of m.
func Frame(m Model, w io.Writer) error {
	_, err := fmt.Fprintln(w, m.View())
	return err
}
