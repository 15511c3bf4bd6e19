package config

import (
	"fmt"
	"strings"

	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
)

const maxDebounceMs = 60000

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateConversion(config)...)
	validationErrors = append(validationErrors, validateOutput(config)...)
	validationErrors = append(validationErrors, validateHistory(config)...)
	validationErrors = append(validationErrors, validateFetch(config)...)
	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateWatch(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validation.ValidatePaletteHex("appearance.palette", config.Appearance.Palette.Colors())...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateConversion(config *Config) []string {
	var validationErrors []string
	c := config.Conversion

	if _, err := entity.ParseBackground(c.Background); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("conversion.background: %v", err))
	}
	if _, err := entity.SizesFromInts(c.Sizes); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("conversion.sizes: %v", err))
	}
	if c.Workers < 0 {
		validationErrors = append(validationErrors, "conversion.workers must be non-negative")
	}
	if c.MaxSourceBytes < 1 || c.MaxSourceBytes > validation.MaxSourceBytes {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"conversion.max_source_bytes must be between 1 and %d (%s)",
			validation.MaxSourceBytes, validation.FormatBytes(validation.MaxSourceBytes)))
	}
	if c.MaxSourcePixels < 1 || c.MaxSourcePixels > validation.MaxSourcePixels {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"conversion.max_source_pixels must be between 1 and %d", validation.MaxSourcePixels))
	}
	switch c.PNGCompression {
	case PNGCompressionDefault, PNGCompressionBest, PNGCompressionSpeed, PNGCompressionNone:
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"conversion.png_compression must be one of: default, best, speed, none (got: %s)", c.PNGCompression))
	}
	return validationErrors
}

func validateOutput(config *Config) []string {
	var validationErrors []string
	if config.Output.Dir == "" {
		validationErrors = append(validationErrors, "output.dir cannot be empty")
	}
	if _, err := bundle.ParseLayout(config.Output.Layout); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("output.layout: %v", err))
	}
	return validationErrors
}

func validateHistory(config *Config) []string {
	if config.History.MaxEntries < 1 {
		return []string{"history.max_entries must be at least 1"}
	}
	return nil
}

func validateFetch(config *Config) []string {
	var validationErrors []string
	if config.Fetch.TimeoutSeconds < 1 {
		validationErrors = append(validationErrors, "fetch.timeout_seconds must be at least 1")
	}
	if config.Fetch.Attempts < 1 || config.Fetch.Attempts > 10 {
		validationErrors = append(validationErrors, "fetch.attempts must be between 1 and 10")
	}
	return validationErrors
}

func validateServer(config *Config) []string {
	var validationErrors []string
	if strings.TrimSpace(config.Server.Listen) == "" {
		validationErrors = append(validationErrors, "server.listen cannot be empty")
	}
	if config.Server.ReadTimeoutSeconds < 0 {
		validationErrors = append(validationErrors, "server.read_timeout_seconds must be non-negative")
	}
	if config.Server.WriteTimeoutSeconds < 0 {
		validationErrors = append(validationErrors, "server.write_timeout_seconds must be non-negative")
	}
	return validationErrors
}

func validateWatch(config *Config) []string {
	if config.Watch.DebounceMs < 0 || config.Watch.DebounceMs > maxDebounceMs {
		return []string{fmt.Sprintf("watch.debounce_ms must be between 0 and %d", maxDebounceMs)}
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error, disabled (got: %s)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}

	file := config.Logging.File
	if file.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.file.max_size_mb must be at least 1")
	}
	if file.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.file.max_backups must be non-negative")
	}
	if file.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging.file.max_age_days must be non-negative")
	}
	return validationErrors
}
