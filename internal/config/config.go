// Package config loads pomobell settings from an optional YAML file and
// POMOBELL_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"pomobell/internal/logging"
)

// ErrInvalid reports a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the process configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Redis     RedisConfig     `yaml:"redis"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Locale selects the notification language (en, ja).
	Locale string `yaml:"locale" env:"POMOBELL_LOCALE" env-default:"en"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"POMOBELL_SERVER_ADDR" env-default:"127.0.0.1:7425"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"POMOBELL_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// SchedulerConfig configures the poll loop.
type SchedulerConfig struct {
	TickInterval  time.Duration `yaml:"tickInterval" env:"POMOBELL_TICK_INTERVAL" env-default:"1s"`
	NotifyTimeout time.Duration `yaml:"notifyTimeout" env:"POMOBELL_NOTIFY_TIMEOUT" env-default:"5s"`
}

// RedisConfig configures the shared status store.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"POMOBELL_REDIS_ENABLED"`
	Addr     string        `yaml:"addr" env:"POMOBELL_REDIS_ADDR" env-default:"127.0.0.1:6379"`
	Password string        `yaml:"password" env:"POMOBELL_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"POMOBELL_REDIS_DB"`
	Prefix   string        `yaml:"prefix" env:"POMOBELL_REDIS_PREFIX" env-default:"pomobell:"`
	TTL      time.Duration `yaml:"ttl" env:"POMOBELL_REDIS_TTL"`
}

// MetricsConfig toggles the Prometheus endpoint.
//
// Disabled is a negative flag: a bool env-default of true would override
// an explicit false from YAML.
type MetricsConfig struct {
	Disabled bool `yaml:"disabled" env:"POMOBELL_METRICS_DISABLED"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"POMOBELL_LOG_LEVEL" env-default:"info"`
	Format     string `yaml:"format" env:"POMOBELL_LOG_FORMAT" env-default:"text"`
	Output     string `yaml:"output" env:"POMOBELL_LOG_OUTPUT" env-default:"stderr"`
	FilePath   string `yaml:"filePath" env:"POMOBELL_LOG_FILE_PATH"`
	MaxSize    int    `yaml:"maxSize" env:"POMOBELL_LOG_MAX_SIZE" env-default:"100"`
	MaxBackups int    `yaml:"maxBackups" env:"POMOBELL_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge     int    `yaml:"maxAge" env:"POMOBELL_LOG_MAX_AGE" env-default:"7"`
	Compress   bool   `yaml:"compress" env:"POMOBELL_LOG_COMPRESS"`
}

// Load reads path (when non-empty) and then the environment.
// A path that does not exist is an error; an empty path reads env only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read environment: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the rest of the program relies on.
func (cfg *Config) Validate() error {
	if cfg.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("%w: scheduler.tickInterval must be positive, got %s", ErrInvalid, cfg.Scheduler.TickInterval)
	}
	if cfg.Scheduler.NotifyTimeout < 0 {
		return fmt.Errorf("%w: scheduler.notifyTimeout must not be negative, got %s", ErrInvalid, cfg.Scheduler.NotifyTimeout)
	}
	if cfg.Redis.TTL < 0 {
		return fmt.Errorf("%w: redis.ttl must not be negative, got %s", ErrInvalid, cfg.Redis.TTL)
	}
	switch cfg.Logging.Output {
	case logging.OutputStderr:
	case logging.OutputFile:
		if cfg.Logging.FilePath == "" {
			return fmt.Errorf("%w: logging.filePath is required for file output", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown logging.output %q", ErrInvalid, cfg.Logging.Output)
	}
	return nil
}

// Usage describes the supported environment variables.
func Usage() string {
	var cfg Config
	description, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return description
}

// LoggerConfig converts to logging.Config.
func (l LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      l.Level,
		Format:     l.Format,
		Output:     l.Output,
		FilePath:   l.FilePath,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}
