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

package shared

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tombee/brk/internal/breakpoint"
	"github.com/tombee/brk/internal/breakpoint/memory"
	"github.com/tombee/brk/internal/breakpoint/sqlite"
	"github.com/tombee/brk/internal/config"
	brklog "github.com/tombee/brk/internal/log"
	"github.com/tombee/brk/internal/tracing"
)

// LoadConfig loads configuration from --config, or the default location.
func LoadConfig() (*config.Config, error) {
	return config.Load(GetConfigPath())
}

// NewLogger builds the process logger. Environment variables win over the
// config file; --verbose wins over both.
func NewLogger(cfg *config.Config) *slog.Logger {
	lc := brklog.FromEnv()

	if cfg != nil {
		if !anyEnvSet("BRK_DEBUG", "BRK_LOG_LEVEL", "LOG_LEVEL") && cfg.Log.Level != "" {
			lc.Level = cfg.Log.Level
		}
		if os.Getenv("LOG_FORMAT") == "" && cfg.Log.Format != "" {
			lc.Format = brklog.Format(cfg.Log.Format)
		}
	}
	if GetVerbose() {
		lc.Level = "debug"
	}
	return brklog.New(lc)
}

func anyEnvSet(keys ...string) bool {
	for _, k := range keys {
		if os.Getenv(k) != "" {
			return true
		}
	}
	return false
}

// OpenStore opens the configured breakpoint store. The returned close
// function is always non-nil.
func OpenStore(cfg *config.Config) (breakpoint.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.New(), noop, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o700); err != nil {
			return nil, noop, NewConfigError("failed to create data directory", err)
		}
		store, err := sqlite.New(sqlite.Config{Path: cfg.Store.Path, WAL: true})
		if err != nil {
			return nil, noop, NewConfigError("failed to open breakpoint store", err)
		}
		return store, store.Close, nil
	}

	return nil, noop, NewConfigError("unknown store backend "+cfg.Store.Backend, nil)
}

// StartTracing installs the configured span exporter and returns a function
// that flushes it. Failures are logged and tracing stays disabled.
func StartTracing(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	v, _, _ := GetVersion()
	shutdown, err := tracing.Setup(ctx, cfg.Tracing, v)
	if err != nil {
		logger.Warn("Tracing disabled", brklog.Error(err))
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("Failed to flush traces", brklog.Error(err))
		}
	}
}
