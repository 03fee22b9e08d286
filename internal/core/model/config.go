package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is matched by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// MaxMinutes is the largest minute count a time.Duration can hold.
const MaxMinutes = int(math.MaxInt64 / int64(time.Minute))

// ConfigError reports the offending field of a rejected regime config.
type ConfigError struct {
	Field string
	Value any
	// Reason defaults to "must be positive".
	Reason string
}

func (err *ConfigError) Error() string {
	reason := err.Reason
	if reason == "" {
		reason = "must be positive"
	}
	return fmt.Sprintf("invalid config: %s %s, got %v", err.Field, reason, err.Value)
}

// Is reports whether target is ErrInvalidConfig.
func (err *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Minutes converts a minute count to a duration, rejecting counts that would
// overflow time.Duration.
func Minutes(field string, minutes int) (time.Duration, error) {
	if minutes > MaxMinutes || minutes < -MaxMinutes {
		return 0, &ConfigError{Field: field, Value: minutes, Reason: fmt.Sprintf("must be at most %d minutes", MaxMinutes)}
	}
	return time.Duration(minutes) * time.Minute, nil
}

// TimerConfig configures the repeating interval timer regime.
type TimerConfig struct {
	Interval    time.Duration
	Repetitions int
	Sound       bool
	StartTime   time.Time
}

// Validate rejects non-positive durations and repetition counts.
func (config TimerConfig) Validate() error {
	if config.Interval <= 0 {
		return &ConfigError{Field: "interval", Value: config.Interval}
	}
	if config.Repetitions <= 0 {
		return &ConfigError{Field: "repetitions", Value: config.Repetitions}
	}
	return nil
}

// PomodoroConfig configures the work/break cycle regime.
type PomodoroConfig struct {
	Work      time.Duration
	Break     time.Duration
	LongBreak time.Duration
	Total     int
	StartTime time.Time
}

// Validate rejects non-positive durations and pomodoro counts.
func (config PomodoroConfig) Validate() error {
	switch {
	case config.Work <= 0:
		return &ConfigError{Field: "work", Value: config.Work}
	case config.Break <= 0:
		return &ConfigError{Field: "break", Value: config.Break}
	case config.LongBreak <= 0:
		return &ConfigError{Field: "long_break", Value: config.LongBreak}
	case config.Total <= 0:
		return &ConfigError{Field: "total", Value: config.Total}
	}
	return nil
}
