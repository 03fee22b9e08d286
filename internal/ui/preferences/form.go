package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pomobell/internal/core/model"
)

// FieldError reports an entry that is not a positive whole number.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s must be a positive whole number, got %q", e.Field, e.Value)
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func minutesText(value time.Duration) string {
	return strconv.Itoa(int(value / time.Minute))
}

func parsePositiveInt(field, value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return 0, &FieldError{Field: field, Value: value}
	}
	return parsed, nil
}

func parseMinutes(field, value string) (time.Duration, error) {
	minutes, err := parsePositiveInt(field, value)
	if err != nil {
		return 0, err
	}
	return model.Minutes(field, minutes)
}

// timerEntries holds the raw timer form values.
type timerEntries struct {
	interval    string
	repetitions string
	sound       bool
}

func (entries timerEntries) apply(settings model.Settings) (model.Settings, error) {
	interval, err := parseMinutes("interval", entries.interval)
	if err != nil {
		return settings, err
	}
	repetitions, err := parsePositiveInt("repetitions", entries.repetitions)
	if err != nil {
		return settings, err
	}
	settings.TimerInterval = interval
	settings.TimerRepetitions = repetitions
	settings.TimerSound = entries.sound
	return settings, nil
}

// pomodoroEntries holds the raw pomodoro form values.
type pomodoroEntries struct {
	work      string
	short     string
	long      string
	pomodoros string
}

func (entries pomodoroEntries) apply(settings model.Settings) (model.Settings, error) {
	work, err := parseMinutes("work", entries.work)
	if err != nil {
		return settings, err
	}
	short, err := parseMinutes("break", entries.short)
	if err != nil {
		return settings, err
	}
	long, err := parseMinutes("long break", entries.long)
	if err != nil {
		return settings, err
	}
	pomodoros, err := parsePositiveInt("pomodoros", entries.pomodoros)
	if err != nil {
		return settings, err
	}
	settings.Work = work
	settings.Break = short
	settings.LongBreak = long
	settings.Pomodoros = pomodoros
	return settings, nil
}
