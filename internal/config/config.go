// Package config provides configuration loading for the roster engine.
package config

import (
	"os"
	"strconv"
)

// Config is the roster engine's runtime configuration.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Solver SolverConfig `yaml:"solver"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env        string `yaml:"env"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"` // json/console
}

// SolverConfig holds knobs for the CP-SAT backend.
type SolverConfig struct {
	TimeLimitSeconds float64 `yaml:"time_limit_seconds"`
	Workers          int     `yaml:"workers"` // 0 = backend default
	RandomSeed       int64   `yaml:"random_seed"`
}

// Load reads configuration from environment variables, applying defaults
// that CLI flags may subsequently override.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:       getEnv("ROSTER_ENV", "production"),
			LogLevel:  getEnv("ROSTER_LOG_LEVEL", "info"),
			LogFormat: getEnv("ROSTER_LOG_FORMAT", "console"),
		},
		Solver: SolverConfig{
			TimeLimitSeconds: getEnvFloat("ROSTER_TIME_LIMIT_SECONDS", 60.0),
			Workers:          getEnvInt("ROSTER_SOLVER_WORKERS", 0),
			RandomSeed:       int64(getEnvInt("ROSTER_RANDOM_SEED", 1)),
		},
	}
	return cfg, nil
}

// IsDevelopment reports whether the process is running in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

