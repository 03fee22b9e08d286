// Package statusview turns snapshots into the strings and colours every
// status surface (progress bar, popup, tray, terminal) displays.
package statusview

import (
	"fmt"
	"image/color"
	"time"

	"pomobell/internal/core/progress"
	"pomobell/internal/core/schedule"
)

// Placeholder values shown when nothing runs.
const (
	NoTime   = "--:--"
	NoCycles = "-"
)

var (
	WorkColor  = color.NRGBA{R: 0x4a, G: 0x90, B: 0xe2, A: 0xff}
	BreakColor = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
)

// View is a display-ready status.
type View struct {
	Active   bool
	Regime   schedule.Regime
	Title    string
	TimeLeft string
	Cycles   string
	Phase    string
	Progress float64
	Color    color.NRGBA
}

// Idle is the view when no regime is active.
func Idle() View {
	return View{TimeLeft: NoTime, Cycles: NoCycles, Color: WorkColor}
}

// FromSnapshot builds the view of snapshot at now. A nil snapshot is Idle.
func FromSnapshot(snapshot schedule.Snapshot, now time.Time) View {
	if snapshot == nil {
		return Idle()
	}

	view := View{
		Active:   true,
		Regime:   snapshot.Regime(),
		TimeLeft: progress.FormatRemaining(snapshot.Remaining(now)),
		Progress: snapshot.Progress(now),
		Color:    WorkColor,
	}

	switch s := snapshot.(type) {
	case schedule.TimerSnapshot:
		view.Title = "Timer"
		view.Cycles = fmt.Sprintf("%d/%d", s.CurrentCycle, s.TotalCycles)
	case schedule.PomodoroSnapshot:
		view.Title = "Pomodoro"
		view.Cycles = fmt.Sprintf("%d/%d", s.CurrentPomodoro, s.TotalPomodoros)
		view.Phase = PhaseLabel(s)
		if s.Phase == schedule.PhaseBreak {
			view.Color = BreakColor
		}
	}
	return view
}

// PhaseLabel names the pomodoro phase.
func PhaseLabel(snapshot schedule.PomodoroSnapshot) string {
	switch {
	case snapshot.Phase == schedule.PhaseWork:
		return "Working"
	case snapshot.IsLongBreak():
		return "Long break"
	default:
		return "Short break"
	}
}

// Summary is a one-line description for menus and window titles.
func (view View) Summary() string {
	if !view.Active {
		return "idle"
	}
	if view.Phase != "" {
		return fmt.Sprintf("%s %s, %s %s left", view.Title, view.Cycles, view.Phase, view.TimeLeft)
	}
	return fmt.Sprintf("%s %s, %s left", view.Title, view.Cycles, view.TimeLeft)
}
