package timekeeper

import (
	"time"

	"pomobell/internal/core/schedule"
)

// EventType names a status broadcast, one per regime.
type EventType string

const (
	EventTimerUpdate    EventType = "timerUpdate"
	EventPomodoroUpdate EventType = "pomodoroUpdate"
)

// Event is a status broadcast for observers. Status is nil when no regime is active.
type Event struct {
	Type   EventType
	Regime schedule.Regime
	Status schedule.Snapshot
	At     time.Time
}

// Active reports whether the event carries a running regime.
func (event Event) Active() bool {
	return event.Status != nil
}

// EventTypeFor returns the broadcast type used for regime.
func EventTypeFor(regime schedule.Regime) EventType {
	if regime == schedule.RegimePomodoro {
		return EventPomodoroUpdate
	}
	return EventTimerUpdate
}
