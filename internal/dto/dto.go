// Package dto defines the JSON shapes exchanged with UIs and stores.
// Times are epoch milliseconds and command durations are minutes, matching
// what browser popups send.
package dto

import (
	"fmt"
	"time"

	"pomobell/internal/core/model"
	"pomobell/internal/core/schedule"
	"pomobell/internal/core/timekeeper"
)

// TimerCommand starts an interval timer.
type TimerCommand struct {
	Interval    int   `json:"interval"`
	Repetitions int   `json:"repetitions"`
	Sound       bool  `json:"sound"`
	StartTime   int64 `json:"startTime,omitempty"`
}

// Config converts the command; a missing start time stays zero. Minute
// counts too large for time.Duration fail with a *model.ConfigError.
func (command TimerCommand) Config() (model.TimerConfig, error) {
	interval, err := model.Minutes("interval", command.Interval)
	if err != nil {
		return model.TimerConfig{}, err
	}
	return model.TimerConfig{
		Interval:    interval,
		Repetitions: command.Repetitions,
		Sound:       command.Sound,
		StartTime:   fromMillis(command.StartTime),
	}, nil
}

// PomodoroCommand starts a pomodoro cycle.
type PomodoroCommand struct {
	WorkDuration      int   `json:"workDuration"`
	BreakDuration     int   `json:"breakDuration"`
	LongBreakDuration int   `json:"longBreakDuration"`
	TotalPomodoros    int   `json:"totalPomodoros"`
	StartTime         int64 `json:"startTime,omitempty"`
}

// Config converts the command like TimerCommand.Config.
func (command PomodoroCommand) Config() (model.PomodoroConfig, error) {
	work, err := model.Minutes("work", command.WorkDuration)
	if err != nil {
		return model.PomodoroConfig{}, err
	}
	shortBreak, err := model.Minutes("break", command.BreakDuration)
	if err != nil {
		return model.PomodoroConfig{}, err
	}
	longBreak, err := model.Minutes("long_break", command.LongBreakDuration)
	if err != nil {
		return model.PomodoroConfig{}, err
	}
	return model.PomodoroConfig{
		Work:      work,
		Break:     shortBreak,
		LongBreak: longBreak,
		Total:     command.TotalPomodoros,
		StartTime: fromMillis(command.StartTime),
	}, nil
}

// Status is a snapshot plus the progress derived at encoding time.
type Status struct {
	Type      string `json:"type"`
	StartTime int64  `json:"startTime"`

	IntervalMs       int64 `json:"intervalMs,omitempty"`
	CurrentCycle     int   `json:"currentCycle,omitempty"`
	TotalCycles      int   `json:"totalCycles,omitempty"`
	Sound            bool  `json:"sound,omitempty"`
	NextNotification int64 `json:"nextNotification,omitempty"`

	Phase           string `json:"phase,omitempty"`
	CurrentPomodoro int    `json:"currentPomodoro,omitempty"`
	TotalPomodoros  int    `json:"totalPomodoros,omitempty"`
	WorkMs          int64  `json:"workMs,omitempty"`
	BreakMs         int64  `json:"breakMs,omitempty"`
	LongBreakMs     int64  `json:"longBreakMs,omitempty"`
	NextPhaseTime   int64  `json:"nextPhaseTime,omitempty"`

	Progress    float64 `json:"progress"`
	RemainingMs int64   `json:"remainingMs"`
}

// FromSnapshot encodes a snapshot observed at now. A nil snapshot encodes to nil.
func FromSnapshot(snapshot schedule.Snapshot, now time.Time) *Status {
	if snapshot == nil {
		return nil
	}

	status := &Status{
		Type:        string(snapshot.Regime()),
		Progress:    snapshot.Progress(now),
		RemainingMs: snapshot.Remaining(now).Milliseconds(),
	}

	switch s := snapshot.(type) {
	case schedule.TimerSnapshot:
		status.StartTime = s.StartTime.UnixMilli()
		status.IntervalMs = s.Interval.Milliseconds()
		status.CurrentCycle = s.CurrentCycle
		status.TotalCycles = s.TotalCycles
		status.Sound = s.Sound
		status.NextNotification = s.NextNotification.UnixMilli()
	case schedule.PomodoroSnapshot:
		status.StartTime = s.StartTime.UnixMilli()
		status.Phase = string(s.Phase)
		status.CurrentPomodoro = s.CurrentPomodoro
		status.TotalPomodoros = s.TotalPomodoros
		status.WorkMs = s.Work.Milliseconds()
		status.BreakMs = s.Break.Milliseconds()
		status.LongBreakMs = s.LongBreak.Milliseconds()
		status.NextPhaseTime = s.NextPhaseTime.UnixMilli()
	}
	return status
}

// Snapshot decodes the status back into a schedule snapshot.
func (status *Status) Snapshot() (schedule.Snapshot, error) {
	if status == nil {
		return nil, nil
	}
	switch schedule.Regime(status.Type) {
	case schedule.RegimeTimer:
		return schedule.TimerSnapshot{
			Interval:         time.Duration(status.IntervalMs) * time.Millisecond,
			CurrentCycle:     status.CurrentCycle,
			TotalCycles:      status.TotalCycles,
			NextNotification: time.UnixMilli(status.NextNotification),
			Sound:            status.Sound,
			StartTime:        time.UnixMilli(status.StartTime),
		}, nil
	case schedule.RegimePomodoro:
		return schedule.PomodoroSnapshot{
			Phase:           schedule.Phase(status.Phase),
			CurrentPomodoro: status.CurrentPomodoro,
			TotalPomodoros:  status.TotalPomodoros,
			Work:            time.Duration(status.WorkMs) * time.Millisecond,
			Break:           time.Duration(status.BreakMs) * time.Millisecond,
			LongBreak:       time.Duration(status.LongBreakMs) * time.Millisecond,
			NextPhaseTime:   time.UnixMilli(status.NextPhaseTime),
			StartTime:       time.UnixMilli(status.StartTime),
		}, nil
	default:
		return nil, fmt.Errorf("unknown status type %q", status.Type)
	}
}

// Event is a status broadcast; Status is null when no regime is active.
type Event struct {
	Type   string  `json:"type"`
	Status *Status `json:"status"`
}

// FromEvent encodes a timekeeper event.
func FromEvent(event timekeeper.Event) Event {
	return Event{
		Type:   string(event.Type),
		Status: FromSnapshot(event.Status, event.At),
	}
}

// Error is the body of failed API calls.
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
