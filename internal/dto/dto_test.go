package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobell/internal/core/model"
	"pomobell/internal/core/schedule"
	"pomobell/internal/core/timekeeper"
)

var epoch = time.UnixMilli(1_700_000_000_000)

func TestTimerCommandConfig(t *testing.T) {
	var command TimerCommand
	require.NoError(t, json.Unmarshal([]byte(`{"interval":25,"repetitions":5,"sound":true,"startTime":1700000000000}`), &command))

	config, err := command.Config()
	require.NoError(t, err)
	assert.Equal(t, 25*time.Minute, config.Interval)
	assert.Equal(t, 5, config.Repetitions)
	assert.True(t, config.Sound)
	assert.True(t, config.StartTime.Equal(epoch))

	config, err = TimerCommand{Interval: 1, Repetitions: 1}.Config()
	require.NoError(t, err)
	assert.True(t, config.StartTime.IsZero())
}

func TestCommandConfigRejectsOverflowingMinutes(t *testing.T) {
	_, err := TimerCommand{Interval: 307445735, Repetitions: 1}.Config()
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	_, err = PomodoroCommand{WorkDuration: 153722868, BreakDuration: 5, LongBreakDuration: 15, TotalPomodoros: 4}.Config()
	require.ErrorIs(t, err, model.ErrInvalidConfig)
	var configErr *model.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "work", configErr.Field)

	config, err := TimerCommand{Interval: model.MaxMinutes, Repetitions: 1}.Config()
	require.NoError(t, err)
	assert.Positive(t, config.Interval)
}

func TestPomodoroCommandConfig(t *testing.T) {
	command := PomodoroCommand{WorkDuration: 25, BreakDuration: 5, LongBreakDuration: 15, TotalPomodoros: 4}
	config, err := command.Config()
	require.NoError(t, err)

	assert.Equal(t, 25*time.Minute, config.Work)
	assert.Equal(t, 5*time.Minute, config.Break)
	assert.Equal(t, 15*time.Minute, config.LongBreak)
	assert.Equal(t, 4, config.Total)
}

func TestStatusTimerJSON(t *testing.T) {
	snapshot := schedule.TimerSnapshot{
		Interval:         10 * time.Minute,
		CurrentCycle:     2,
		TotalCycles:      3,
		NextNotification: epoch.Add(10 * time.Minute),
		Sound:            true,
		StartTime:        epoch,
	}
	status := FromSnapshot(snapshot, epoch.Add(5*time.Minute))

	data, err := json.Marshal(status)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "timer",
		"startTime": 1700000000000,
		"intervalMs": 600000,
		"currentCycle": 2,
		"totalCycles": 3,
		"sound": true,
		"nextNotification": 1700000600000,
		"progress": 50,
		"remainingMs": 300000
	}`, string(data))

	decoded, err := status.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snapshot.Interval, decoded.PhaseDuration())
	assert.True(t, snapshot.Deadline().Equal(decoded.Deadline()))
	assert.Equal(t, 2, decoded.(schedule.TimerSnapshot).CurrentCycle)
}

func TestStatusPomodoroRoundTrip(t *testing.T) {
	snapshot := schedule.PomodoroSnapshot{
		Phase:           schedule.PhaseBreak,
		CurrentPomodoro: 4,
		TotalPomodoros:  4,
		Work:            25 * time.Minute,
		Break:           5 * time.Minute,
		LongBreak:       15 * time.Minute,
		NextPhaseTime:   epoch.Add(15 * time.Minute),
		StartTime:       epoch.Add(-2 * time.Hour),
	}
	status := FromSnapshot(snapshot, epoch)
	assert.Equal(t, "pomodoro", status.Type)
	assert.Equal(t, "break", status.Phase)
	assert.Equal(t, 0.0, status.Progress)

	decoded, err := status.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, decoded.PhaseDuration())
	assert.Equal(t, schedule.RegimePomodoro, decoded.Regime())
}

func TestStatusUnknownType(t *testing.T) {
	_, err := (&Status{Type: "stopwatch"}).Snapshot()
	assert.Error(t, err)

	var missing *Status
	snapshot, err := missing.Snapshot()
	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestFromEventAbsent(t *testing.T) {
	event := FromEvent(timekeeper.Event{Type: timekeeper.EventPomodoroUpdate, At: epoch})

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pomodoroUpdate","status":null}`, string(data))
}
