package schedule

import (
	"time"

	"pomobell/internal/core/model"
)

// Pomodoro alternates work and break phases for a fixed number of pomodoros.
type Pomodoro struct {
	state PomodoroSnapshot
}

// NewPomodoro starts the first work phase at config.StartTime. The config must be valid.
func NewPomodoro(config model.PomodoroConfig) Pomodoro {
	return Pomodoro{state: PomodoroSnapshot{
		Phase:           PhaseWork,
		CurrentPomodoro: 1,
		TotalPomodoros:  config.Total,
		Work:            config.Work,
		Break:           config.Break,
		LongBreak:       config.LongBreak,
		NextPhaseTime:   config.StartTime.Add(config.Work),
		StartTime:       config.StartTime,
	}}
}

func (pomodoro Pomodoro) Regime() Regime { return RegimePomodoro }

func (pomodoro Pomodoro) Snapshot() Snapshot { return pomodoro.state }

// Poll switches phase once the deadline passed. Completion is only checked
// when a break ends, so the last pomodoro still gets its break.
func (pomodoro Pomodoro) Poll(now time.Time) (Machine, []Effect) {
	if now.Before(pomodoro.state.NextPhaseTime) {
		return pomodoro, nil
	}

	next := pomodoro
	if pomodoro.state.Phase == PhaseWork {
		longBreak := IsLongBreak(pomodoro.state.CurrentPomodoro)
		breakDuration := pomodoro.state.Break
		if longBreak {
			breakDuration = pomodoro.state.LongBreak
		}
		next.state.Phase = PhaseBreak
		next.state.NextPhaseTime = now.Add(breakDuration)
		return next, []Effect{
			notifyEffect(Notification{
				Kind:      NotifyWorkComplete,
				Regime:    RegimePomodoro,
				Cycle:     pomodoro.state.CurrentPomodoro,
				Total:     pomodoro.state.TotalPomodoros,
				LongBreak: longBreak,
				PlaySound: true,
			}),
			advanceEffect(RegimePomodoro, PhaseBreak, pomodoro.state.CurrentPomodoro),
		}
	}

	next.state.Phase = PhaseWork
	next.state.CurrentPomodoro++
	if next.state.CurrentPomodoro > next.state.TotalPomodoros {
		return nil, []Effect{completeEffect(RegimePomodoro)}
	}

	next.state.NextPhaseTime = now.Add(next.state.Work)
	return next, []Effect{
		notifyEffect(Notification{
			Kind:      NotifyBreakComplete,
			Regime:    RegimePomodoro,
			Cycle:     next.state.CurrentPomodoro,
			Total:     next.state.TotalPomodoros,
			PlaySound: true,
		}),
		advanceEffect(RegimePomodoro, PhaseWork, next.state.CurrentPomodoro),
	}
}

func (Pomodoro) isMachine() {}
