package config

import (
	"fmt"
	"time"

	redisclient "github.com/vietddude/occload/internal/infra/redis"
	"github.com/vietddude/occload/internal/infra/storage/postgres"
	"github.com/vietddude/occload/internal/retry"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig       `yaml:"server"`
	Database   postgres.Config    `yaml:"database"`
	Target     TargetConfig       `yaml:"target"`
	Load       LoadConfig         `yaml:"load"`
	Retry      RetryConfig        `yaml:"retry"`
	DeadLetter DeadLetterConfig   `yaml:"dead_letter"`
	Redis      redisclient.Config `yaml:"redis"`
	Logging    LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// TargetConfig identifies the table receiving the generated load.
type TargetConfig struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

// LoadConfig holds load generation settings.
type LoadConfig struct {
	Threads      int      `yaml:"threads"`
	BatchSize    int      `yaml:"batch_size"`
	Duration     Duration `yaml:"duration"`
	MaxAttempts  int      `yaml:"max_attempts"`
	TaskDeadline Duration `yaml:"task_deadline"` // 0 = disabled
}

// RetryConfig holds backoff and jitter settings.
type RetryConfig struct {
	BaseDelay      Duration `yaml:"base_delay"`
	MaxDelay       Duration `yaml:"max_delay"`
	GrowthFactor   float64  `yaml:"growth_factor"`
	JitterStrategy string   `yaml:"jitter_strategy"` // none, full, equal
	RandomSeed     int64    `yaml:"random_seed"`     // 0 = nondeterministic
}

// Backoff converts to the retry package's config.
func (c RetryConfig) Backoff() retry.BackoffConfig {
	return retry.BackoffConfig{
		BaseDelay:    c.BaseDelay.Std(),
		MaxDelay:     c.MaxDelay.Std(),
		GrowthFactor: c.GrowthFactor,
		Jitter:       retry.JitterStrategy(c.JitterStrategy),
	}
}

// DeadLetterConfig selects the dead-letter backend.
type DeadLetterConfig struct {
	Backend string `yaml:"backend"` // memory, postgres, redis
	Buffer  int    `yaml:"buffer"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Duration parses human-readable durations ("1s", "10m") from YAML.
// Bare numbers are read as seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n float64
	if err := unmarshal(&n); err != nil {
		return err
	}
	*d = Duration(time.Duration(n * float64(time.Second)))
	return nil
}
