package config

// Config represents the complete configuration for ico256.
type Config struct {
	// Conversion controls the image-to-icon pipeline.
	Conversion ConversionConfig `mapstructure:"conversion" toml:"conversion" json:"conversion"`
	// Output controls where and how bundles are exported.
	Output OutputConfig `mapstructure:"output" toml:"output" json:"output"`
	// History controls the conversion history store.
	History  HistoryConfig  `mapstructure:"history" toml:"history" json:"history"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
	// Fetch controls downloading of remote sources.
	Fetch FetchConfig `mapstructure:"fetch" toml:"fetch" json:"fetch"`
	// Server configures the HTTP API started by `ico256 serve`.
	Server ServerConfig `mapstructure:"server" toml:"server" json:"server"`
	// Watch configures `ico256 watch`.
	Watch      WatchConfig      `mapstructure:"watch" toml:"watch" json:"watch"`
	Logging    LoggingConfig    `mapstructure:"logging" toml:"logging" json:"logging"`
	Appearance AppearanceConfig `mapstructure:"appearance" toml:"appearance" json:"appearance"`
}

// PNGCompression selects the zlib effort of raster exports.
type PNGCompression string

const (
	PNGCompressionDefault PNGCompression = "default"
	PNGCompressionBest    PNGCompression = "best"
	PNGCompressionSpeed   PNGCompression = "speed"
	PNGCompressionNone    PNGCompression = "none"
)

// ConversionConfig holds pipeline settings.
type ConversionConfig struct {
	// Background is "white" or "transparent".
	Background string `mapstructure:"background" toml:"background" json:"background" jsonschema:"enum=white,enum=transparent,default=white"`
	// Sizes lists the icon edges to produce. Empty means all standard sizes.
	Sizes []int `mapstructure:"sizes" toml:"sizes" json:"sizes" jsonschema:"uniqueItems=true"`
	// Workers bounds how many sizes render at once (0 = one per CPU).
	Workers int `mapstructure:"workers" toml:"workers" json:"workers" jsonschema:"minimum=0"`
	// MaxSourceBytes lowers the 15 MiB source ceiling.
	MaxSourceBytes int64 `mapstructure:"max_source_bytes" toml:"max_source_bytes" json:"max_source_bytes" jsonschema:"minimum=1,maximum=15728640"`
	// MaxSourcePixels lowers the decoded area ceiling (36 megapixels).
	MaxSourcePixels int64 `mapstructure:"max_source_pixels" toml:"max_source_pixels" json:"max_source_pixels" jsonschema:"minimum=1,maximum=36000000"`
	// PNGCompression is default, best, speed or none.
	PNGCompression PNGCompression `mapstructure:"png_compression" toml:"png_compression" json:"png_compression" jsonschema:"enum=default,enum=best,enum=speed,enum=none"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	// Dir is the parent directory of exported bundles.
	Dir string `mapstructure:"dir" toml:"dir" json:"dir"`
	// Layout is "bundle" (per-platform folders) or "flat".
	Layout string `mapstructure:"layout" toml:"layout" json:"layout" jsonschema:"enum=bundle,enum=flat"`
	// Zip writes universal-icons.zip instead of loose files.
	Zip bool `mapstructure:"zip" toml:"zip" json:"zip"`
	// KeepExisting exports next to an existing bundle instead of replacing it.
	KeepExisting bool `mapstructure:"keep_existing" toml:"keep_existing" json:"keep_existing"`
}

// HistoryConfig holds history-related configuration.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// MaxEntries is how many conversions are kept.
	MaxEntries int `mapstructure:"max_entries" toml:"max_entries" json:"max_entries" jsonschema:"minimum=1"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/ico256/ico256.db.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// FetchConfig holds remote source settings.
type FetchConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" jsonschema:"minimum=1"`
	Attempts       int    `mapstructure:"attempts" toml:"attempts" json:"attempts" jsonschema:"minimum=1,maximum=10"`
	UserAgent      string `mapstructure:"user_agent" toml:"user_agent" json:"user_agent"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Listen              string `mapstructure:"listen" toml:"listen" json:"listen"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" toml:"read_timeout_seconds" json:"read_timeout_seconds" jsonschema:"minimum=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" toml:"write_timeout_seconds" json:"write_timeout_seconds" jsonschema:"minimum=0"`
}

// WatchConfig holds directory watcher settings.
type WatchConfig struct {
	// DebounceMs is the quiet period after the last write before a file is converted.
	DebounceMs int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" jsonschema:"minimum=0,maximum=60000"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string        `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format string        `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	File   LogFileConfig `mapstructure:"file" toml:"file" json:"file"`
}

// LogFileConfig controls the rotating log file in $XDG_STATE_HOME/ico256/logs.
type LogFileConfig struct {
	Enabled    bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	MaxSizeMB  int  `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups int  `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAgeDays int  `mapstructure:"max_age_days" toml:"max_age_days" json:"max_age_days" jsonschema:"minimum=0"`
	Compress   bool `mapstructure:"compress" toml:"compress" json:"compress"`
}

// AppearanceConfig holds terminal styling.
type AppearanceConfig struct {
	// NoColor disables styled output.
	NoColor bool          `mapstructure:"no_color" toml:"no_color" json:"no_color"`
	Palette PaletteConfig `mapstructure:"palette" toml:"palette" json:"palette"`
}

// PaletteConfig holds the CLI colors as #RRGGBB strings.
type PaletteConfig struct {
	Accent  string `mapstructure:"accent" toml:"accent" json:"accent"`
	Text    string `mapstructure:"text" toml:"text" json:"text"`
	Muted   string `mapstructure:"muted" toml:"muted" json:"muted"`
	Border  string `mapstructure:"border" toml:"border" json:"border"`
	Error   string `mapstructure:"error" toml:"error" json:"error"`
	Success string `mapstructure:"success" toml:"success" json:"success"`
}

// Colors returns the palette keyed by config name.
func (p PaletteConfig) Colors() map[string]string {
	return map[string]string{
		"accent":  p.Accent,
		"text":    p.Text,
		"muted":   p.Muted,
		"border":  p.Border,
		"error":   p.Error,
		"success": p.Success,
	}
}
