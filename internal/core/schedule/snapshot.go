package schedule

import (
	"time"

	"pomobell/internal/core/progress"
)

// Snapshot is an immutable copy of machine state handed to collaborators.
type Snapshot interface {
	Regime() Regime
	// Deadline is the instant of the next notification or phase change.
	Deadline() time.Time
	// PhaseDuration is the length of the phase ending at Deadline.
	PhaseDuration() time.Duration
	Progress(now time.Time) float64
	Remaining(now time.Time) time.Duration
}

// TimerSnapshot is the interval timer state.
type TimerSnapshot struct {
	Interval         time.Duration
	CurrentCycle     int
	TotalCycles      int
	NextNotification time.Time
	Sound            bool
	StartTime        time.Time
}

func (snapshot TimerSnapshot) Regime() Regime { return RegimeTimer }

func (snapshot TimerSnapshot) Deadline() time.Time { return snapshot.NextNotification }

func (snapshot TimerSnapshot) PhaseDuration() time.Duration { return snapshot.Interval }

func (snapshot TimerSnapshot) Progress(now time.Time) float64 {
	return phaseProgress(snapshot, now)
}

func (snapshot TimerSnapshot) Remaining(now time.Time) time.Duration {
	return progress.Remaining(now, snapshot.NextNotification)
}

// PomodoroSnapshot is the work/break cycle state.
type PomodoroSnapshot struct {
	Phase           Phase
	CurrentPomodoro int
	TotalPomodoros  int
	Work            time.Duration
	Break           time.Duration
	LongBreak       time.Duration
	NextPhaseTime   time.Time
	StartTime       time.Time
}

func (snapshot PomodoroSnapshot) Regime() Regime { return RegimePomodoro }

func (snapshot PomodoroSnapshot) Deadline() time.Time { return snapshot.NextPhaseTime }

// PhaseDuration derives the running phase length. currentPomodoro is not
// incremented until the break ends, so the break length is stable.
func (snapshot PomodoroSnapshot) PhaseDuration() time.Duration {
	if snapshot.Phase == PhaseWork {
		return snapshot.Work
	}
	if snapshot.IsLongBreak() {
		return snapshot.LongBreak
	}
	return snapshot.Break
}

// IsLongBreak reports whether the current (or upcoming) break is a long one.
func (snapshot PomodoroSnapshot) IsLongBreak() bool {
	return IsLongBreak(snapshot.CurrentPomodoro)
}

func (snapshot PomodoroSnapshot) Progress(now time.Time) float64 {
	return phaseProgress(snapshot, now)
}

func (snapshot PomodoroSnapshot) Remaining(now time.Time) time.Duration {
	return progress.Remaining(now, snapshot.NextPhaseTime)
}

func phaseProgress(snapshot Snapshot, now time.Time) float64 {
	duration := snapshot.PhaseDuration()
	return progress.Fraction(now, progress.PhaseStart(snapshot.Deadline(), duration), duration)
}
