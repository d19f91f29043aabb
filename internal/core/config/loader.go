package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/occload/internal/retry"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Target.Schema == "" {
		cfg.Target.Schema = "public"
	}
	if cfg.Load.Threads == 0 {
		cfg.Load.Threads = 1
	}
	if cfg.Load.BatchSize == 0 {
		cfg.Load.BatchSize = 1000
	}
	if cfg.Load.Duration == 0 {
		cfg.Load.Duration = Duration(10 * time.Minute)
	}
	if cfg.Load.MaxAttempts == 0 {
		cfg.Load.MaxAttempts = 5
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = Duration(retry.DefaultBackoffConfig.BaseDelay)
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = Duration(retry.DefaultBackoffConfig.MaxDelay)
	}
	if cfg.Retry.GrowthFactor == 0 {
		cfg.Retry.GrowthFactor = retry.DefaultBackoffConfig.GrowthFactor
	}
	if cfg.Retry.JitterStrategy == "" {
		cfg.Retry.JitterStrategy = string(retry.DefaultBackoffConfig.Jitter)
	}
	if cfg.DeadLetter.Backend == "" {
		if cfg.Database.URL != "" {
			cfg.DeadLetter.Backend = "postgres"
		} else {
			cfg.DeadLetter.Backend = "memory"
		}
	}
	if cfg.DeadLetter.Buffer == 0 {
		cfg.DeadLetter.Buffer = 1024
	}
}

// Validate checks constraints that would otherwise surface mid-run.
func (cfg *AppConfig) Validate() error {
	if cfg.Load.Threads < 1 {
		return fmt.Errorf("load.threads must be positive, got %d", cfg.Load.Threads)
	}
	if cfg.Load.BatchSize < 1 {
		return fmt.Errorf("load.batch_size must be positive, got %d", cfg.Load.BatchSize)
	}
	if cfg.Load.MaxAttempts < 1 {
		return fmt.Errorf("load.max_attempts must be positive, got %d", cfg.Load.MaxAttempts)
	}
	if cfg.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry.base_delay must be positive")
	}
	if cfg.Retry.MaxDelay < cfg.Retry.BaseDelay {
		return fmt.Errorf("retry.max_delay must be >= retry.base_delay")
	}
	if cfg.Retry.GrowthFactor <= 1 {
		return fmt.Errorf("retry.growth_factor must be > 1, got %v", cfg.Retry.GrowthFactor)
	}
	if !retry.JitterStrategy(cfg.Retry.JitterStrategy).Valid() {
		return fmt.Errorf("retry.jitter_strategy must be one of none, full, equal; got %q",
			cfg.Retry.JitterStrategy)
	}
	switch cfg.DeadLetter.Backend {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("dead_letter.backend must be one of memory, postgres, redis; got %q",
			cfg.DeadLetter.Backend)
	}
	return nil
}
