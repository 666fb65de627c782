// Package config holds CLI-level settings (database path, sync
// endpoint, log level) layered over environment variables, following
// the same persistent-flag idiom cobra/pflag commands use throughout
// internal/cli.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/D0ntPanic/tpscube/internal/kv"
)

// Config is the resolved set of settings for a CLI invocation. The zero
// value is valid: ResolvedDBPath and Logger fall back to their defaults
// for empty fields.
type Config struct {
	DBPath       string
	SyncEndpoint string
	LogLevel     string
}

// FromEnvironment overlays TPSCUBE_DB, TPSCUBE_SYNC_ENDPOINT and
// TPSCUBE_LOG_LEVEL onto c wherever the corresponding field is empty,
// matching the precedence flags > environment > built-in default that
// cobra callers apply on top of this.
func (c Config) FromEnvironment() Config {
	if c.DBPath == "" {
		c.DBPath = os.Getenv("TPSCUBE_DB")
	}
	if c.SyncEndpoint == "" {
		c.SyncEndpoint = os.Getenv("TPSCUBE_SYNC_ENDPOINT")
	}
	if c.LogLevel == "" {
		c.LogLevel = os.Getenv("TPSCUBE_LOG_LEVEL")
	}
	return c
}

// ResolvedDBPath returns DBPath, or kv.DefaultPath() if unset.
func (c Config) ResolvedDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return kv.DefaultPath()
}

// Logger builds the process-wide structured logger for LogLevel
// ("debug", "info", "warn", "error"; defaults to "info").
func (c Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
