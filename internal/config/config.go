// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel   = "SHAPE_MCP_LOG_LEVEL"
	EnvWorkers    = "SHAPE_WORKERS"
	EnvInvert     = "SHAPE_INVERT"
	EnvReportPath = "SHAPE_REPORT_PATH"
)

// DefaultReportPath is where batch reports go when nothing else is set.
const DefaultReportPath = "output.txt"

// Config holds settings shared by the server and the report CLI.
type Config struct {
	// LogLevel is "debug" for verbose logging, anything else for normal.
	LogLevel string

	// Workers bounds concurrent extractions in a batch.
	Workers int

	// Invert is the default thresholding inversion for requests that do not
	// say otherwise.
	Invert bool

	// ReportPath is the default output file for batch reports.
	ReportPath string
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		LogLevel:   "info",
		Workers:    runtime.NumCPU(),
		ReportPath: DefaultReportPath,
	}
}

// Load reads an optional .env file from the working directory, then the
// process environment. Variables already set in the environment win over the
// file. Unset variables keep their defaults.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s %q: want a positive integer", EnvWorkers, v)
		}
		cfg.Workers = n
	}

	if v := os.Getenv(EnvInvert); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvInvert, v, err)
		}
		cfg.Invert = b
	}

	if v := os.Getenv(EnvReportPath); v != "" {
		cfg.ReportPath = v
	}

	return cfg, nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}
