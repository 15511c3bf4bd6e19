package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/invopop/jsonschema"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
)

// Section names for grouping config keys.
const (
	SectionConversion = "Conversion"
	SectionOutput     = "Output"
	SectionHistory    = "History"
	SectionDatabase   = "Database"
	SectionFetch      = "Fetch"
	SectionServer     = "Server"
	SectionWatch      = "Watch"
	SectionLogging    = "Logging"
	SectionAppearance = "Appearance"
)

// SchemaProvider implements port.ConfigSchemaProvider.
type SchemaProvider struct{}

// NewSchemaProvider creates a new SchemaProvider.
func NewSchemaProvider() *SchemaProvider {
	return &SchemaProvider{}
}

var _ port.ConfigSchemaProvider = (*SchemaProvider)(nil)

// GetSchema returns all configuration keys with their metadata.
func (p *SchemaProvider) GetSchema() []entity.ConfigKeyInfo {
	defaults := DefaultConfig()

	keys := make([]entity.ConfigKeyInfo, 0, 40)
	keys = append(keys, p.getConversionKeys(defaults)...)
	keys = append(keys, p.getOutputKeys(defaults)...)
	keys = append(keys, p.getHistoryKeys(defaults)...)
	keys = append(keys, p.getDatabaseKeys()...)
	keys = append(keys, p.getFetchKeys(defaults)...)
	keys = append(keys, p.getServerKeys(defaults)...)
	keys = append(keys, p.getWatchKeys(defaults)...)
	keys = append(keys, p.getLoggingKeys(defaults)...)
	keys = append(keys, p.getAppearanceKeys(defaults)...)
	return keys
}

func (*SchemaProvider) getConversionKeys(defaults *Config) []entity.ConfigKeyInfo {
	c := defaults.Conversion
	return []entity.ConfigKeyInfo{
		{
			Key:         "conversion.background",
			Type:        "string",
			Default:     c.Background,
			Description: "Fill of the padding around non-square sources",
			Values:      []string{"white", "transparent"},
			Section:     SectionConversion,
		},
		{
			Key:         "conversion.sizes",
			Type:        "[]int",
			Default:     fmt.Sprint(c.Sizes),
			Description: "Icon edges to produce",
			Values:      []string{"16", "32", "48", "64", "128", "256"},
			Section:     SectionConversion,
		},
		{
			Key:         "conversion.workers",
			Type:        "int",
			Default:     strconv.Itoa(c.Workers),
			Description: "Sizes rendered in parallel (0 = one per CPU)",
			Range:       "0+",
			Section:     SectionConversion,
		},
		{
			Key:         "conversion.max_source_bytes",
			Type:        "int",
			Default:     strconv.FormatInt(c.MaxSourceBytes, 10),
			Description: "Largest accepted source file; can only be lowered",
			Range:       fmt.Sprintf("1-%d", validation.MaxSourceBytes),
			Section:     SectionConversion,
		},
		{
			Key:         "conversion.max_source_pixels",
			Type:        "int",
			Default:     strconv.FormatInt(c.MaxSourcePixels, 10),
			Description: "Largest accepted decoded area (width x height); can only be lowered",
			Range:       fmt.Sprintf("1-%d", validation.MaxSourcePixels),
			Section:     SectionConversion,
		},
		{
			Key:         "conversion.png_compression",
			Type:        "string",
			Default:     string(c.PNGCompression),
			Description: "Compression effort of PNG exports",
			Values:      []string{"default", "best", "speed", "none"},
			Section:     SectionConversion,
		},
	}
}

func (*SchemaProvider) getOutputKeys(defaults *Config) []entity.ConfigKeyInfo {
	o := defaults.Output
	return []entity.ConfigKeyInfo{
		{
			Key:         "output.dir",
			Type:        "string",
			Default:     o.Dir,
			Description: "Parent directory of exported bundles",
			Section:     SectionOutput,
		},
		{
			Key:         "output.layout",
			Type:        "string",
			Default:     o.Layout,
			Description: "Per-platform folders or a flat directory",
			Values:      []string{"bundle", "flat"},
			Section:     SectionOutput,
		},
		{
			Key:         "output.zip",
			Type:        "bool",
			Default:     strconv.FormatBool(o.Zip),
			Description: "Write universal-icons.zip instead of loose files",
			Section:     SectionOutput,
		},
		{
			Key:         "output.keep_existing",
			Type:        "bool",
			Default:     strconv.FormatBool(o.KeepExisting),
			Description: "Export next to an existing bundle instead of replacing it",
			Section:     SectionOutput,
		},
	}
}

func (*SchemaProvider) getHistoryKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "history.enabled",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.History.Enabled),
			Description: "Record conversions in the history database",
			Section:     SectionHistory,
		},
		{
			Key:         "history.max_entries",
			Type:        "int",
			Default:     strconv.Itoa(defaults.History.MaxEntries),
			Description: "Conversions kept in history",
			Range:       "1+",
			Section:     SectionHistory,
		},
	}
}

func (*SchemaProvider) getDatabaseKeys() []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "database.path",
			Type:        "string",
			Default:     "$XDG_DATA_HOME/ico256/" + databaseName,
			Description: "SQLite history database",
			Section:     SectionDatabase,
		},
	}
}

func (*SchemaProvider) getFetchKeys(defaults *Config) []entity.ConfigKeyInfo {
	f := defaults.Fetch
	return []entity.ConfigKeyInfo{
		{
			Key:         "fetch.timeout_seconds",
			Type:        "int",
			Default:     strconv.Itoa(f.TimeoutSeconds),
			Description: "Timeout of one download attempt",
			Range:       "1+",
			Section:     SectionFetch,
		},
		{
			Key:         "fetch.attempts",
			Type:        "int",
			Default:     strconv.Itoa(f.Attempts),
			Description: "Attempts on network errors and 5xx responses",
			Range:       "1-10",
			Section:     SectionFetch,
		},
		{
			Key:         "fetch.user_agent",
			Type:        "string",
			Default:     f.UserAgent,
			Description: "User-Agent header of downloads",
			Section:     SectionFetch,
		},
	}
}

func (*SchemaProvider) getServerKeys(defaults *Config) []entity.ConfigKeyInfo {
	s := defaults.Server
	return []entity.ConfigKeyInfo{
		{
			Key:         "server.listen",
			Type:        "string",
			Default:     s.Listen,
			Description: "Address of the HTTP API",
			Section:     SectionServer,
		},
		{
			Key:         "server.read_timeout_seconds",
			Type:        "int",
			Default:     strconv.Itoa(s.ReadTimeoutSeconds),
			Description: "Request read timeout (0 = none)",
			Range:       "0+",
			Section:     SectionServer,
		},
		{
			Key:         "server.write_timeout_seconds",
			Type:        "int",
			Default:     strconv.Itoa(s.WriteTimeoutSeconds),
			Description: "Response write timeout (0 = none)",
			Range:       "0+",
			Section:     SectionServer,
		},
	}
}

func (*SchemaProvider) getWatchKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "watch.debounce_ms",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Watch.DebounceMs),
			Description: "Quiet period after the last write before converting",
			Range:       fmt.Sprintf("0-%d", maxDebounceMs),
			Section:     SectionWatch,
		},
	}
}

func (*SchemaProvider) getLoggingKeys(defaults *Config) []entity.ConfigKeyInfo {
	l := defaults.Logging
	return []entity.ConfigKeyInfo{
		{
			Key:         "logging.level",
			Type:        "string",
			Default:     l.Level,
			Description: "Log verbosity level",
			Values:      []string{"trace", "debug", "info", "warn", "error", "disabled"},
			Section:     SectionLogging,
		},
		{
			Key:         "logging.format",
			Type:        "string",
			Default:     l.Format,
			Description: "Log output format",
			Values:      []string{"console", "json"},
			Section:     SectionLogging,
		},
		{
			Key:         "logging.file.enabled",
			Type:        "bool",
			Default:     strconv.FormatBool(l.File.Enabled),
			Description: "Also write logs to $XDG_STATE_HOME/ico256/logs",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.file.max_size_mb",
			Type:        "int",
			Default:     strconv.Itoa(l.File.MaxSizeMB),
			Description: "Size that triggers rotation",
			Range:       "1+",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.file.max_backups",
			Type:        "int",
			Default:     strconv.Itoa(l.File.MaxBackups),
			Description: "Rotated files kept (0 = unlimited)",
			Range:       "0+",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.file.max_age_days",
			Type:        "int",
			Default:     strconv.Itoa(l.File.MaxAgeDays),
			Description: "Age after which rotated files are removed (0 = never)",
			Range:       "0+",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.file.compress",
			Type:        "bool",
			Default:     strconv.FormatBool(l.File.Compress),
			Description: "Gzip rotated files",
			Section:     SectionLogging,
		},
	}
}

func (*SchemaProvider) getAppearanceKeys(defaults *Config) []entity.ConfigKeyInfo {
	keys := []entity.ConfigKeyInfo{
		{
			Key:         "appearance.no_color",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Appearance.NoColor),
			Description: "Disable styled terminal output",
			Section:     SectionAppearance,
		},
	}
	p := defaults.Appearance.Palette
	for _, c := range []struct{ name, value, desc string }{
		{"accent", p.Accent, "Headings and highlights"},
		{"text", p.Text, "Body text"},
		{"muted", p.Muted, "Secondary text"},
		{"border", p.Border, "Table borders"},
		{"error", p.Error, "Errors and dropped sizes"},
		{"success", p.Success, "Completed steps"},
	} {
		keys = append(keys, entity.ConfigKeyInfo{
			Key:         "appearance.palette." + c.name,
			Type:        "string",
			Default:     c.value,
			Description: c.desc,
			Range:       "#RRGGBB",
			Section:     SectionAppearance,
		})
	}
	return keys
}

// JSONSchema returns the JSON Schema of the config file.
func (*SchemaProvider) JSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	schema := r.Reflect(&Config{})
	schema.ID = "https://github.com/bnema/ico256/config.schema.json"
	schema.Title = "ico256 configuration"
	schema.Description = "Configuration of ico256, an image to icon converter"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// GenerateSchemaFile writes config.schema.json into dir.
func GenerateSchemaFile(dir string) error {
	data, err := NewSchemaProvider().JSONSchema()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, schemaName), data, filePerm); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}
