// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads brk settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	brkerrors "github.com/tombee/brk/pkg/errors"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the complete brk configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Shell   ShellConfig   `yaml:"shell"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// StoreConfig selects where breakpoints are kept.
type StoreConfig struct {
	// Backend is "memory" or "sqlite". Default: sqlite
	Backend string `yaml:"backend"`

	// Path is the SQLite database file. Default: <data dir>/breakpoints.db
	Path string `yaml:"path,omitempty"`
}

// ShellConfig tunes the interactive shell.
type ShellConfig struct {
	// Prompt is printed while the engine is paused. Default: "brk> "
	Prompt string `yaml:"prompt"`

	// SourceContext is the number of source lines shown around a location.
	// Default: 5
	SourceContext int `yaml:"source_context"`
}

// LogConfig mirrors internal/log.Config for file-based settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:9464". Empty disables it.
	Addr string `yaml:"addr,omitempty"`
}

// Span exporters.
const (
	ExporterNone     = "none"
	ExporterConsole  = "console"
	ExporterOTLP     = "otlp"
	ExporterOTLPHTTP = "otlp-http"
)

// TracingConfig controls OpenTelemetry span export.
type TracingConfig struct {
	// Exporter is "none", "console", "otlp" (gRPC) or "otlp-http". Default: none
	Exporter string `yaml:"exporter"`

	// Endpoint is the collector address for the OTLP exporters, e.g.
	// "localhost:4317".
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS for the OTLP exporters.
	Insecure bool `yaml:"insecure,omitempty"`

	// Output is the file the console exporter appends to. Empty means stderr.
	Output string `yaml:"output,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(defaultDataDir(), "breakpoints.db"),
		},
		Shell: ShellConfig{
			Prompt:        "brk> ",
			SourceContext: 5,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Tracing: TracingConfig{
			Exporter: ExporterNone,
		},
	}
}

// Load loads configuration from an optional YAML file, then applies
// environment overrides. If configPath is empty the default config file is
// read when it exists.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		if p, err := ConfigPath(); err == nil {
			configPath = p
		}
	}

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			if explicit || !brkerrors.Is(err, os.ErrNotExist) {
				return nil, &brkerrors.ConfigError{
					Key:    "config_file",
					Reason: fmt.Sprintf("failed to load from %s", configPath),
					Cause:  err,
				}
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &brkerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// applyDefaults fills in zero values left by a partial config file.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Store.Backend == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if c.Store.Path == "" {
		c.Store.Path = defaults.Store.Path
	}
	if c.Shell.Prompt == "" {
		c.Shell.Prompt = defaults.Shell.Prompt
	}
	if c.Shell.SourceContext == 0 {
		c.Shell.SourceContext = defaults.Shell.SourceContext
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = defaults.Tracing.Exporter
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// loadFromEnv applies BRK_* environment overrides.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("BRK_STORE_BACKEND"); val != "" {
		c.Store.Backend = strings.ToLower(val)
	}
	if val := os.Getenv("BRK_STORE_PATH"); val != "" {
		c.Store.Path = val
	}
	if val := os.Getenv("BRK_PROMPT"); val != "" {
		c.Shell.Prompt = val
	}
	if val := os.Getenv("BRK_SOURCE_CONTEXT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Shell.SourceContext = n
		}
	}
	if val := os.Getenv("BRK_METRICS_ADDR"); val != "" {
		c.Metrics.Addr = val
	}
	if val := os.Getenv("BRK_TRACING_EXPORTER"); val != "" {
		c.Tracing.Exporter = strings.ToLower(val)
	}
	if val := os.Getenv("BRK_TRACING_ENDPOINT"); val != "" {
		c.Tracing.Endpoint = val
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.Path == "" {
			return &brkerrors.ValidationError{
				Field:      "store.path",
				Message:    "required for the sqlite backend",
				Suggestion: "Set store.path or BRK_STORE_PATH",
			}
		}
	default:
		return &brkerrors.ValidationError{
			Field:      "store.backend",
			Message:    fmt.Sprintf("unknown backend %q", c.Store.Backend),
			Suggestion: "Use 'memory' or 'sqlite'",
		}
	}

	if c.Shell.SourceContext < 0 {
		return &brkerrors.ValidationError{
			Field:   "shell.source_context",
			Message: "must not be negative",
		}
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return &brkerrors.ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unknown format %q", c.Log.Format),
		}
	}

	switch c.Tracing.Exporter {
	case ExporterNone, ExporterConsole:
	case ExporterOTLP, ExporterOTLPHTTP:
		if c.Tracing.Endpoint == "" {
			return &brkerrors.ValidationError{
				Field:      "tracing.endpoint",
				Message:    fmt.Sprintf("required for the %s exporter", c.Tracing.Exporter),
				Suggestion: "Set tracing.endpoint or BRK_TRACING_ENDPOINT",
			}
		}
	default:
		return &brkerrors.ValidationError{
			Field:      "tracing.exporter",
			Message:    fmt.Sprintf("unknown exporter %q", c.Tracing.Exporter),
			Suggestion: "Use 'none', 'console', 'otlp' or 'otlp-http'",
		}
	}

	return nil
}
