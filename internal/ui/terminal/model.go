// Package terminal is a bubbletea view of the live status stream.
package terminal

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomobell/internal/core/schedule"
	"pomobell/internal/dto"
	"pomobell/internal/ui/statusview"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4A90E2")).
			Padding(0, 1).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

const barWidth = 30

// EventMsg delivers a status broadcast to the model.
type EventMsg dto.Event

type tickMsg time.Time

type streamClosedMsg struct{}

type resetDoneMsg struct{ err error }

// Options configures the model.
type Options struct {
	// Reset is called for the "r" key; nil disables it.
	Reset func() error
	Now   func() time.Time
	// Initial is shown until the first event arrives.
	Initial *dto.Status
}

// Model is the bubbletea model for `pomobell watch`.
type Model struct {
	events   <-chan dto.Event
	reset    func() error
	now      func() time.Time
	snapshot schedule.Snapshot
	err      error
	closed   bool
	width    int
}

// New creates a model reading events from the channel.
func New(events <-chan dto.Event, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	model := Model{events: events, reset: opts.Reset, now: opts.Now}
	if snapshot, err := opts.Initial.Snapshot(); err == nil {
		model.snapshot = snapshot
	}
	return model
}

// Run drives the model in the alternate screen until quit or ctx ends.
func Run(ctx context.Context, events <-chan dto.Event, opts Options) error {
	program := tea.NewProgram(New(events, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(events <-chan dto.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return EventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForEvent(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.reset == nil {
				return m, nil
			}
			reset := m.reset
			return m, func() tea.Msg { return resetDoneMsg{err: reset()} }
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		return m, tickCmd()
	case EventMsg:
		snapshot, err := msg.Status.Snapshot()
		m.snapshot = snapshot
		m.err = err
		return m, waitForEvent(m.events)
	case resetDoneMsg:
		m.err = msg.err
	case streamClosedMsg:
		m.closed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	view := statusview.FromSnapshot(m.snapshot, m.now())

	header := headerStyle.Render("pomobell")

	var body string
	if view.Active {
		lines := []string{
			fmt.Sprintf("%s  %s", view.Title, view.Cycles),
			timeStyle.Render(view.TimeLeft),
			renderBar(view),
		}
		if view.Phase != "" {
			lines = append(lines, view.Phase)
		}
		body = strings.Join(lines, "\n")
	} else {
		body = "No timer running\n" + timeStyle.Render(statusview.NoTime)
	}
	box := boxStyle.Render(body)

	parts := []string{header, box}
	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	}
	if m.closed {
		parts = append(parts, errorStyle.Render("event stream closed"))
	}
	footer := "Press 'q' to quit"
	if m.reset != nil {
		footer += " • 'r' to reset"
	}
	parts = append(parts, footerStyle.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderBar(view statusview.View) string {
	filled := int(view.Progress / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	hex := fmt.Sprintf("#%02X%02X%02X", view.Color.R, view.Color.G, view.Color.B)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(bar) + fmt.Sprintf(" %3.0f%%", view.Progress)
}
