package preferences

import (
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobell/internal/core/model"
	"pomobell/internal/core/schedule"
	"pomobell/internal/ui/statusview"
)

func TestTimerEntriesApply(t *testing.T) {
	settings, err := timerEntries{interval: " 10 ", repetitions: "3", sound: false}.apply(model.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, settings.TimerInterval)
	assert.Equal(t, 3, settings.TimerRepetitions)
	assert.False(t, settings.TimerSound)
	assert.Equal(t, 25*time.Minute, settings.Work)
}

func TestPomodoroEntriesRejectInvalid(t *testing.T) {
	defaults := model.DefaultSettings()
	for _, entries := range []pomodoroEntries{
		{work: "x", short: "5", long: "15", pomodoros: "4"},
		{work: "25", short: "0", long: "15", pomodoros: "4"},
		{work: "25", short: "5", long: "-1", pomodoros: "4"},
		{work: "25", short: "5", long: "15", pomodoros: ""},
	} {
		settings, err := entries.apply(defaults)
		var fieldErr *FieldError
		assert.True(t, errors.As(err, &fieldErr), "%+v", entries)
		assert.Equal(t, defaults, settings)
	}
}

func TestTimerEntriesRejectOverflowingMinutes(t *testing.T) {
	defaults := model.DefaultSettings()
	settings, err := timerEntries{interval: "307445735", repetitions: "1", sound: true}.apply(defaults)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Equal(t, defaults, settings)
}

func TestStartTimerButton(t *testing.T) {
	app := test.NewTempApp(t)
	var started model.Settings
	prefs := New(app, model.DefaultSettings(), Actions{
		OnStartTimer: func(settings model.Settings) error {
			started = settings
			return nil
		},
	})

	prefs.interval.SetText("1")
	prefs.repetitions.SetText("3")
	test.Tap(prefs.startTimer)

	assert.Equal(t, time.Minute, started.TimerInterval)
	assert.Equal(t, 3, started.TimerRepetitions)
	assert.Equal(t, started, prefs.Settings())
	assert.True(t, prefs.startTimer.Disabled())
	assert.True(t, prefs.startPomodoro.Disabled())
	assert.False(t, prefs.reset.Disabled())
}

func TestStartShowsErrors(t *testing.T) {
	app := test.NewTempApp(t)
	prefs := New(app, model.DefaultSettings(), Actions{
		OnStartPomodoro: func(model.Settings) error { return errors.New("server unavailable") },
	})

	prefs.work.SetText("abc")
	test.Tap(prefs.startPomodoro)
	assert.Contains(t, prefs.errorText.Text, "work")
	assert.False(t, prefs.startPomodoro.Disabled())

	prefs.work.SetText("25")
	test.Tap(prefs.startPomodoro)
	assert.Equal(t, "server unavailable", prefs.errorText.Text)
	assert.Equal(t, model.DefaultSettings(), prefs.Settings())
}

func TestResetRestoresIdleView(t *testing.T) {
	app := test.NewTempApp(t)
	resets := 0
	prefs := New(app, model.DefaultSettings(), Actions{OnReset: func() { resets++ }})

	now := time.UnixMilli(1_700_000_000_000)
	prefs.showViewUnsafe(statusview.FromSnapshot(schedule.PomodoroSnapshot{
		Phase:           schedule.PhaseWork,
		CurrentPomodoro: 2,
		TotalPomodoros:  4,
		Work:            25 * time.Minute,
		Break:           5 * time.Minute,
		LongBreak:       15 * time.Minute,
		NextPhaseTime:   now.Add(90 * time.Second),
	}, now))
	assert.Equal(t, "01:30", prefs.timeLeft.Text)
	assert.Equal(t, "2/4", prefs.cycles.Text)
	assert.Equal(t, "Working", prefs.phase.Text)

	test.Tap(prefs.reset)
	assert.Equal(t, 1, resets)
	assert.Equal(t, statusview.NoTime, prefs.timeLeft.Text)
	assert.False(t, prefs.startTimer.Disabled())
	assert.True(t, prefs.reset.Disabled())
}
