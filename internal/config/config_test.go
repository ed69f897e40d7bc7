package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MODEL_SOURCE", "")
	t.Setenv("QUOTE_ALLOW_UNKNOWN_REGION", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Source != SourceFile {
		t.Errorf("Model.Source = %q, want %q", cfg.Model.Source, SourceFile)
	}
	if cfg.Quotation.AllowUnknownRegion {
		t.Error("AllowUnknownRegion should default to false")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MODEL_SOURCE", "remote")
	t.Setenv("MODEL_TIMEOUT", "3")
	t.Setenv("QUOTE_ALLOW_UNKNOWN_REGION", "true")
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Source != SourceRemote || cfg.Model.Timeout != 3 {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if !cfg.Quotation.AllowUnknownRegion {
		t.Error("AllowUnknownRegion should be true")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("invalid SERVER_PORT should fall back to 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("MODEL_SOURCE", "s3")
	if _, err := Load(); err == nil {
		t.Error("Load() expected error for unknown MODEL_SOURCE")
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "q", SSLMode: "disable"}}
	want := "host=db port=5433 user=u password=p dbname=q sslmode=disable"
	if got := cfg.GetPostgreSQLDSN(); got != want {
		t.Errorf("GetPostgreSQLDSN() = %q, want %q", got, want)
	}

	cfg.PostgreSQL.DSN = "postgres://x"
	if got := cfg.GetPostgreSQLDSN(); got != "postgres://x" {
		t.Errorf("GetPostgreSQLDSN() = %q, want DSN override", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["k"] != "v" {
		t.Errorf("log entry = %v", entry)
	}
}
