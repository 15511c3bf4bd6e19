package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty sizes mean all sizes", mutate: func(c *Config) { c.Conversion.Sizes = nil }},
		{
			name:    "unknown background",
			mutate:  func(c *Config) { c.Conversion.Background = "black" },
			wantErr: "conversion.background",
		},
		{
			name:    "non standard size",
			mutate:  func(c *Config) { c.Conversion.Sizes = []int{16, 20} },
			wantErr: "conversion.sizes",
		},
		{
			name:    "ceiling cannot be raised",
			mutate:  func(c *Config) { c.Conversion.MaxSourceBytes = 16 << 20 },
			wantErr: "conversion.max_source_bytes",
		},
		{
			name:    "pixel ceiling cannot be raised",
			mutate:  func(c *Config) { c.Conversion.MaxSourcePixels = 8192 * 8192 },
			wantErr: "conversion.max_source_pixels",
		},
		{
			name:    "negative pixel ceiling",
			mutate:  func(c *Config) { c.Conversion.MaxSourcePixels = -1 },
			wantErr: "conversion.max_source_pixels",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Conversion.Workers = -1 },
			wantErr: "conversion.workers",
		},
		{
			name:    "unknown compression",
			mutate:  func(c *Config) { c.Conversion.PNGCompression = "max" },
			wantErr: "conversion.png_compression",
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.Output.Dir = "" },
			wantErr: "output.dir",
		},
		{
			name:    "history bound",
			mutate:  func(c *Config) { c.History.MaxEntries = 0 },
			wantErr: "history.max_entries",
		},
		{
			name:    "debounce too long",
			mutate:  func(c *Config) { c.Watch.DebounceMs = 120000 },
			wantErr: "watch.debounce_ms",
		},
		{
			name:    "log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "log file size",
			mutate:  func(c *Config) { c.Logging.File.MaxSizeMB = 0 },
			wantErr: "logging.file.max_size_mb",
		},
		{
			name:    "palette color",
			mutate:  func(c *Config) { c.Appearance.Palette.Accent = "purple" },
			wantErr: "appearance.palette.accent",
		},
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.Server.Listen = " " },
			wantErr: "server.listen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateConfig_AggregatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetch.TimeoutSeconds = 0
	cfg.Fetch.Attempts = 11

	err := validateConfig(cfg)
	assert.ErrorContains(t, err, "fetch.timeout_seconds")
	assert.ErrorContains(t, err, "fetch.attempts")
}
