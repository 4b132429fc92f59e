// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AppConfig represents the application configuration.
type AppConfig struct {
	Server struct {
		Addr         string `yaml:"addr"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
	} `yaml:"server"`
	Auth struct {
		JWT struct {
			SecretEnv   string `yaml:"secret_env"`
			ExpiryHours int    `yaml:"expiry_hours"`
		} `yaml:"jwt"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"auth"`
	Stats struct {
		// Schedule is a cron expression for the periodic stats job.
		Schedule string `yaml:"schedule"`
	} `yaml:"stats"`
}

// Default returns the configuration used when no file is provided.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.Server.Addr = ":8080"
	cfg.Server.MaxBodyBytes = 1 << 20 // 1 MiB
	cfg.Auth.JWT.SecretEnv = "JWT_SECRET"
	cfg.Auth.JWT.ExpiryHours = 24
	cfg.Auth.RateLimit.RPS = 5
	cfg.Auth.RateLimit.Burst = 10
	cfg.Stats.Schedule = "*/5 * * * *"
	return cfg
}

// Load reads the configuration from the YAML file at path, falling back
// to defaults for anything the file leaves unset. An empty path returns
// the defaults. Environment variables PORT and STATS_SCHEDULE override
// the file.
// The path parameter is expected to come from a trusted source
// (command-line argument or hardcoded default).
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			cfg.Server.Addr = ":" + port
		}
	}
	if schedule := os.Getenv("STATS_SCHEDULE"); schedule != "" {
		cfg.Stats.Schedule = schedule
	}
}

func validate(cfg *AppConfig) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if cfg.Auth.JWT.SecretEnv == "" {
		return fmt.Errorf("jwt secret_env is required")
	}
	if cfg.Auth.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("jwt expiry_hours must be positive")
	}
	if cfg.Auth.RateLimit.RPS <= 0 || cfg.Auth.RateLimit.Burst <= 0 {
		return fmt.Errorf("auth rate limit must be positive")
	}
	if cfg.Stats.Schedule == "" {
		return fmt.Errorf("stats schedule is required")
	}
	return nil
}
