package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"SAGADOCS_TOC_URL", "SAGADOCS_ORIGIN", "SAGADOCS_OUTPUT_DIR", "SAGADOCS_WRITE_MODE",
		"SAGADOCS_CONCURRENCY", "SAGADOCS_HTTP_TIMEOUT", "SAGADOCS_USER_AGENT",
		"SAGADOCS_PREVIEW_PORT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.TOCURL != "https://onepiece.fandom.com/wiki/Chapters_and_Volumes" {
		t.Errorf("unexpected TOC URL %q", cfg.TOCURL)
	}
	if cfg.Origin != "https://onepiece.fandom.com" {
		t.Errorf("unexpected origin %q", cfg.Origin)
	}
	if cfg.OutputDir != "./docs" {
		t.Errorf("unexpected output dir %q", cfg.OutputDir)
	}
	if cfg.WriteMode != WriteModeOverwrite {
		t.Errorf("unexpected write mode %q", cfg.WriteMode)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("unexpected concurrency %d", cfg.Concurrency)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SAGADOCS_OUTPUT_DIR", "/tmp/out")
	t.Setenv("SAGADOCS_WRITE_MODE", "APPEND")
	t.Setenv("SAGADOCS_CONCURRENCY", "1")
	t.Setenv("SAGADOCS_HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("unexpected output dir %q", cfg.OutputDir)
	}
	if cfg.WriteMode != WriteModeAppend {
		t.Errorf("expected write mode to be lowercased, got %q", cfg.WriteMode)
	}
	if cfg.Concurrency != 1 {
		t.Errorf("expected concurrency 1, got %d", cfg.Concurrency)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.SlogLevel())
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SAGADOCS_CONCURRENCY", "lots")
	t.Setenv("SAGADOCS_HTTP_TIMEOUT", "-3s")

	cfg := Load()
	if cfg.Concurrency != 4 {
		t.Errorf("expected fallback concurrency, got %d", cfg.Concurrency)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected fallback timeout, got %v", cfg.HTTPTimeout)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad toc url", func(c *Config) { c.TOCURL = "not a url" }, "TOCURL"},
		{"empty output", func(c *Config) { c.OutputDir = "" }, "OutputDir"},
		{"bad write mode", func(c *Config) { c.WriteMode = "merge" }, "WriteMode"},
		{"too much concurrency", func(c *Config) { c.Concurrency = 1000 }, "Concurrency"},
		{"bad port", func(c *Config) { c.PreviewPort = "http" }, "PreviewPort"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LogFormat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %s, got %v", tt.field, err)
			}
		})
	}
}
