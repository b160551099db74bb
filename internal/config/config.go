package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Write modes for documents that receive more than one main saga.
const (
	WriteModeOverwrite = "overwrite"
	WriteModeAppend    = "append"
)

type Config struct {
	// Source wiki
	TOCURL string
	Origin string

	// Output
	OutputDir string
	WriteMode string

	// Fetching
	Concurrency int
	HTTPTimeout time.Duration
	UserAgent   string

	// Preview server
	PreviewPort string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() Config {
	cfg := Config{
		TOCURL: envOr("SAGADOCS_TOC_URL", "https://onepiece.fandom.com/wiki/Chapters_and_Volumes"),
		Origin: envOr("SAGADOCS_ORIGIN", "https://onepiece.fandom.com"),

		OutputDir: envOr("SAGADOCS_OUTPUT_DIR", "./docs"),
		WriteMode: strings.ToLower(envOr("SAGADOCS_WRITE_MODE", WriteModeOverwrite)),

		Concurrency: envInt("SAGADOCS_CONCURRENCY", 4),
		HTTPTimeout: envDuration("SAGADOCS_HTTP_TIMEOUT", 30*time.Second),
		UserAgent:   envOr("SAGADOCS_USER_AGENT", "sagadocs/1.0"),

		PreviewPort: envOr("SAGADOCS_PREVIEW_PORT", "8090"),

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "text")),
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TOCURL, validation.Required, is.URL),
		validation.Field(&c.Origin, validation.Required, is.URL),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.WriteMode, validation.In(WriteModeOverwrite, WriteModeAppend)),
		validation.Field(&c.Concurrency, validation.Min(1), validation.Max(64)),
		validation.Field(&c.PreviewPort, validation.Required, is.Port),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
}

// SlogLevel maps LogLevel onto slog.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
