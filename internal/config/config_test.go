package config

import (
	"log/slog"
	"testing"
)

func TestFromEnvironmentOnlyFillsEmptyFields(t *testing.T) {
	t.Setenv("TPSCUBE_DB", "/env/db.sqlite")
	t.Setenv("TPSCUBE_SYNC_ENDPOINT", "https://env.example/sync")
	t.Setenv("TPSCUBE_LOG_LEVEL", "debug")

	c := Config{DBPath: "/flag/db.sqlite"}.FromEnvironment()
	if c.DBPath != "/flag/db.sqlite" {
		t.Errorf("DBPath = %q, want flag value preserved", c.DBPath)
	}
	if c.SyncEndpoint != "https://env.example/sync" {
		t.Errorf("SyncEndpoint = %q, want env value", c.SyncEndpoint)
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want env value", c.LogLevel)
	}
}

func TestResolvedDBPathPrefersExplicitPath(t *testing.T) {
	c := Config{DBPath: "/explicit/path.db"}
	path, err := c.ResolvedDBPath()
	if err != nil {
		t.Fatalf("ResolvedDBPath: %v", err)
	}
	if path != "/explicit/path.db" {
		t.Errorf("ResolvedDBPath = %q, want explicit path", path)
	}
}

func TestLoggerLevels(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
	}
	for _, tc := range cases {
		l := Config{LogLevel: tc.in}.Logger()
		if !l.Enabled(nil, tc.want) {
			t.Errorf("LogLevel %q: logger not enabled at expected level %v", tc.in, tc.want)
		}
	}
}
