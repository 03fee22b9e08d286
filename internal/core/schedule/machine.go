// Package schedule holds the pure state machines behind the interval timer and
// pomodoro regimes. Machines never touch the wall clock or any collaborator:
// the caller passes the observation time to Poll and executes the returned effects.
package schedule

import "time"

// Regime identifies which notification regime a machine runs.
type Regime string

const (
	RegimeTimer    Regime = "timer"
	RegimePomodoro Regime = "pomodoro"
)

// Phase is the pomodoro sub-state.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// LongBreakEvery is the pomodoro index period that earns a long break.
const LongBreakEvery = 4

// Machine is an active regime. Implementations are immutable values: Poll
// returns the successor instead of mutating the receiver.
type Machine interface {
	Regime() Regime
	// Poll applies at most one transition for the observation time now.
	// A nil Machine means the regime completed.
	Poll(now time.Time) (Machine, []Effect)
	Snapshot() Snapshot
	isMachine()
}

// IsLongBreak reports whether the break after work session n is a long one.
func IsLongBreak(n int) bool {
	return n%LongBreakEvery == 0
}
