package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomobell/internal/core/model"
	"pomobell/internal/platform"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TimerIntervalMinutes int   `yaml:"timer_interval_minutes"`
	TimerRepetitions     int   `yaml:"timer_repetitions"`
	TimerSound           *bool `yaml:"timer_sound"`
	WorkMinutes          int   `yaml:"work_minutes"`
	BreakMinutes         int   `yaml:"break_minutes"`
	LongBreakMinutes     int   `yaml:"long_break_minutes"`
	Pomodoros            int   `yaml:"pomodoros"`
}

// LoadSettings reads the form values from the user config directory.
// If the file does not exist, default settings are returned.
func LoadSettings(appName string) (model.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return model.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads form values from configPath.
func LoadSettingsFile(configPath string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes the form values to the user config directory.
func SaveSettings(appName string, settings model.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes form values to configPath.
func SaveSettingsFile(configPath string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	sound := settings.TimerSound
	fileData := yamlSettings{
		TimerIntervalMinutes: int(settings.TimerInterval / time.Minute),
		TimerRepetitions:     settings.TimerRepetitions,
		TimerSound:           &sound,
		WorkMinutes:          int(settings.Work / time.Minute),
		BreakMinutes:         int(settings.Break / time.Minute),
		LongBreakMinutes:     int(settings.LongBreak / time.Minute),
		Pomodoros:            settings.Pomodoros,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns <config dir>/<appName>/settings.yaml.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.NewService().GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// applyYamlSettings keeps defaults for missing or non-positive values.
func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.TimerIntervalMinutes > 0 {
		settings.TimerInterval = time.Duration(fileData.TimerIntervalMinutes) * time.Minute
	}
	if fileData.TimerRepetitions > 0 {
		settings.TimerRepetitions = fileData.TimerRepetitions
	}
	if fileData.TimerSound != nil {
		settings.TimerSound = *fileData.TimerSound
	}
	if fileData.WorkMinutes > 0 {
		settings.Work = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.BreakMinutes > 0 {
		settings.Break = time.Duration(fileData.BreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreak = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.Pomodoros > 0 {
		settings.Pomodoros = fileData.Pomodoros
	}
}
