package config

import (
	"github.com/bnema/ico256/internal/domain/validation"
)

// Default configuration constants
const (
	// Conversion defaults
	defaultBackground     = "white"
	defaultWorkers        = 0
	defaultPNGCompression = PNGCompressionDefault

	// Output defaults
	defaultOutputDir = "icons"
	defaultLayout    = "bundle"

	// History defaults
	defaultMaxHistoryEntries = 5

	// Fetch defaults
	defaultFetchTimeoutSeconds = 10
	defaultFetchAttempts       = 3
	defaultUserAgent           = "ico256 (+https://github.com/bnema/ico256)"

	// Server defaults
	defaultListen              = ":8256"
	defaultReadTimeoutSeconds  = 30
	defaultWriteTimeoutSeconds = 60

	// Watch defaults
	defaultDebounceMs = 500

	// Logging defaults
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 5
	defaultLogMaxAgeDays = 14
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Conversion: ConversionConfig{
			Background:      defaultBackground,
			Sizes:           []int{16, 32, 48, 64, 128, 256},
			Workers:         defaultWorkers,
			MaxSourceBytes:  validation.MaxSourceBytes,
			MaxSourcePixels: validation.MaxSourcePixels,
			PNGCompression:  defaultPNGCompression,
		},
		Output: OutputConfig{
			Dir:    defaultOutputDir,
			Layout: defaultLayout,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: defaultMaxHistoryEntries,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: defaultFetchTimeoutSeconds,
			Attempts:       defaultFetchAttempts,
			UserAgent:      defaultUserAgent,
		},
		Server: ServerConfig{
			Listen:              defaultListen,
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
		},
		Watch: WatchConfig{
			DebounceMs: defaultDebounceMs,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
			File: LogFileConfig{
				Enabled:    false,
				MaxSizeMB:  defaultLogMaxSizeMB,
				MaxBackups: defaultLogMaxBackups,
				MaxAgeDays: defaultLogMaxAgeDays,
				Compress:   true,
			},
		},
		Appearance: AppearanceConfig{
			Palette: PaletteConfig{
				Accent:  "#7C3AED",
				Text:    "#E5E7EB",
				Muted:   "#9CA3AF",
				Border:  "#4B5563",
				Error:   "#EF4444",
				Success: "#22C55E",
			},
		},
	}
}
