package model

import "time"

// Settings holds the last values entered in the start form.
type Settings struct {
	TimerInterval    time.Duration
	TimerRepetitions int
	TimerSound       bool

	Work      time.Duration
	Break     time.Duration
	LongBreak time.Duration
	Pomodoros int
}

// DefaultSettings returns the stock form values.
func DefaultSettings() Settings {
	return Settings{
		TimerInterval:    25 * time.Minute,
		TimerRepetitions: 5,
		TimerSound:       true,
		Work:             25 * time.Minute,
		Break:            5 * time.Minute,
		LongBreak:        15 * time.Minute,
		Pomodoros:        4,
	}
}

// TimerConfig converts settings to a timer config starting at start.
func (settings Settings) TimerConfig(start time.Time) TimerConfig {
	return TimerConfig{
		Interval:    settings.TimerInterval,
		Repetitions: settings.TimerRepetitions,
		Sound:       settings.TimerSound,
		StartTime:   start,
	}
}

// PomodoroConfig converts settings to a pomodoro config starting at start.
func (settings Settings) PomodoroConfig(start time.Time) PomodoroConfig {
	return PomodoroConfig{
		Work:      settings.Work,
		Break:     settings.Break,
		LongBreak: settings.LongBreak,
		Total:     settings.Pomodoros,
		StartTime: start,
	}
}
