package schedule

import (
	"time"

	"pomobell/internal/core/model"
)

// Timer fires a notification every interval until the repetitions run out.
type Timer struct {
	state TimerSnapshot
}

// NewTimer starts a timer at config.StartTime. The config must be valid.
func NewTimer(config model.TimerConfig) Timer {
	return Timer{state: TimerSnapshot{
		Interval:         config.Interval,
		CurrentCycle:     1,
		TotalCycles:      config.Repetitions,
		NextNotification: config.StartTime.Add(config.Interval),
		Sound:            config.Sound,
		StartTime:        config.StartTime,
	}}
}

func (timer Timer) Regime() Regime { return RegimeTimer }

func (timer Timer) Snapshot() Snapshot { return timer.state }

// Poll fires the due notification and rebases the deadline on now, so a late
// poll drops the overshoot instead of catching up.
func (timer Timer) Poll(now time.Time) (Machine, []Effect) {
	if now.Before(timer.state.NextNotification) {
		return timer, nil
	}

	effects := []Effect{notifyEffect(Notification{
		Kind:      NotifyInterval,
		Regime:    RegimeTimer,
		Cycle:     timer.state.CurrentCycle,
		Total:     timer.state.TotalCycles,
		PlaySound: timer.state.Sound,
	})}

	next := timer
	next.state.CurrentCycle++
	if next.state.CurrentCycle > next.state.TotalCycles {
		return nil, append(effects, completeEffect(RegimeTimer))
	}

	next.state.NextNotification = now.Add(next.state.Interval)
	return next, append(effects, advanceEffect(RegimeTimer, "", next.state.CurrentCycle))
}

func (Timer) isMachine() {}
