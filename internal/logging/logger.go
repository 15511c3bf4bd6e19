package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables read by NewFromEnv.
const (
	EnvLevel  = "ICO256_LOG_LEVEL"
	EnvFormat = "ICO256_LOG_FORMAT"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	// Output defaults to stderr.
	Output io.Writer
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	return zerolog.New(writerFor(cfg)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

func writerFor(cfg Config) io.Writer {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == FormatJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: cfg.TimeFormat,
	}
}

// ParseLevel maps trace, debug, info, warn, error and disabled to a zerolog
// level. Unknown values return fallback.
func ParseLevel(level string, fallback zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return fallback
	}
}

// ParseFormat returns "json" or "console"; anything else falls back to console.
func ParseFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), FormatJSON) {
		return FormatJSON
	}
	return FormatConsole
}

// NewFromConfigValues builds a stderr logger from config strings.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level, cfg.Level)
	cfg.Format = ParseFormat(format)
	return New(cfg)
}

// NewFromEnv creates a logger based on environment variables
// ICO256_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// ICO256_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(os.Getenv(EnvLevel), cfg.Level)
	if format := os.Getenv(EnvFormat); format != "" {
		cfg.Format = ParseFormat(format)
	}
	return New(cfg)
}

// NewWithFile logs to cfg's output and, as JSON, to a rotating file in dir.
// Closing the returned closer closes the file.
func NewWithFile(cfg Config, dir string, opts RotateOptions) (zerolog.Logger, io.Closer, error) {
	rotator, err := NewLogRotator(dir, opts)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writerFor(cfg), rotator)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, rotator, nil
}
