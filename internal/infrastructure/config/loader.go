// Package config loads, validates and watches the ico256 configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/ico256/internal/logging"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config         *Config
	viper          *viper.Viper
	mu             sync.RWMutex
	callbacks      []func(*Config)
	watching       bool
	skipNextReload bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// ICO256_CONVERSION_BACKGROUND, ICO256_SERVER_LISTEN, ...
	v.SetEnvPrefix("ICO256")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", logging.EnvLevel); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", logging.EnvLevel, err)
	}
	if err := v.BindEnv("logging.format", logging.EnvFormat); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", logging.EnvFormat, err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile, _ = GetConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		configDir, _ := GetConfigDir()
		return fmt.Errorf(
			"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
			configDir,
			createErr,
		)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// decode unmarshals, completes, normalizes and validates the viper state.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := ensureDatabasePath(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	config.Conversion.Background = strings.ToLower(strings.TrimSpace(config.Conversion.Background))
	switch config.Conversion.Background {
	case "", "opaque":
		config.Conversion.Background = defaultBackground
	case "none", "remove":
		config.Conversion.Background = "transparent"
	}

	if len(config.Conversion.Sizes) > 0 {
		sizes := slices.Clone(config.Conversion.Sizes)
		slices.Sort(sizes)
		config.Conversion.Sizes = slices.Compact(sizes)
	}
	if config.Conversion.MaxSourceBytes == 0 {
		config.Conversion.MaxSourceBytes = DefaultConfig().Conversion.MaxSourceBytes
	}
	if config.Conversion.MaxSourcePixels == 0 {
		config.Conversion.MaxSourcePixels = DefaultConfig().Conversion.MaxSourcePixels
	}

	switch PNGCompression(strings.ToLower(string(config.Conversion.PNGCompression))) {
	case "":
		config.Conversion.PNGCompression = PNGCompressionDefault
	case PNGCompressionBest:
		config.Conversion.PNGCompression = PNGCompressionBest
	case PNGCompressionSpeed:
		config.Conversion.PNGCompression = PNGCompressionSpeed
	case PNGCompressionNone:
		config.Conversion.PNGCompression = PNGCompressionNone
	case PNGCompressionDefault:
		config.Conversion.PNGCompression = PNGCompressionDefault
	}

	config.Output.Dir = strings.TrimSpace(config.Output.Dir)
	config.Output.Layout = strings.ToLower(strings.TrimSpace(config.Output.Layout))
	if config.Output.Layout == "" {
		config.Output.Layout = defaultLayout
	}

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))

	config.Fetch.UserAgent = strings.TrimSpace(config.Fetch.UserAgent)
	if config.Fetch.UserAgent == "" {
		config.Fetch.UserAgent = defaultUserAgent
	}
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Conversion.Sizes = slices.Clone(m.config.Conversion.Sizes)
	return &configCopy
}

// Save validates cfg and writes it to the config file.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	path := m.viper.ConfigFileUsed()
	if path == "" {
		var err error
		if path, err = GetConfigFile(); err != nil {
			return err
		}
	}
	if err := WriteConfigOrdered(cfg, path); err != nil {
		return err
	}

	saved := *cfg
	saved.Conversion.Sizes = slices.Clone(cfg.Conversion.Sizes)
	m.config = &saved
	if m.watching {
		m.skipNextReload = true
	}
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig writes the defaults and their JSON schema to the config directory.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	// The database path is resolved at load time so the file stays portable.
	if err := WriteConfigOrdered(DefaultConfig(), configFile); err != nil {
		return err
	}

	log := logging.NewFromEnv()
	log.Info().Str("path", configFile).Msg("created default configuration file")

	if err := GenerateSchemaFile(filepath.Dir(configFile)); err != nil {
		log.Warn().Err(err).Msg("failed to write config schema")
	}
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setConversionDefaults(defaults)
	m.setOutputDefaults(defaults)
	m.setHistoryDefaults(defaults)
	m.setFetchDefaults(defaults)
	m.setServerDefaults(defaults)
	m.setWatchDefaults(defaults)
	m.setLoggingDefaults(defaults)
	m.setAppearanceDefaults(defaults)
}

func (m *Manager) setConversionDefaults(defaults *Config) {
	m.viper.SetDefault("conversion.background", defaults.Conversion.Background)
	m.viper.SetDefault("conversion.sizes", defaults.Conversion.Sizes)
	m.viper.SetDefault("conversion.workers", defaults.Conversion.Workers)
	m.viper.SetDefault("conversion.max_source_bytes", defaults.Conversion.MaxSourceBytes)
	m.viper.SetDefault("conversion.max_source_pixels", defaults.Conversion.MaxSourcePixels)
	m.viper.SetDefault("conversion.png_compression", string(defaults.Conversion.PNGCompression))
}

func (m *Manager) setOutputDefaults(defaults *Config) {
	m.viper.SetDefault("output.dir", defaults.Output.Dir)
	m.viper.SetDefault("output.layout", defaults.Output.Layout)
	m.viper.SetDefault("output.zip", defaults.Output.Zip)
	m.viper.SetDefault("output.keep_existing", defaults.Output.KeepExisting)
}

func (m *Manager) setHistoryDefaults(defaults *Config) {
	m.viper.SetDefault("history.enabled", defaults.History.Enabled)
	m.viper.SetDefault("history.max_entries", defaults.History.MaxEntries)
}

func (m *Manager) setFetchDefaults(defaults *Config) {
	m.viper.SetDefault("fetch.timeout_seconds", defaults.Fetch.TimeoutSeconds)
	m.viper.SetDefault("fetch.attempts", defaults.Fetch.Attempts)
	m.viper.SetDefault("fetch.user_agent", defaults.Fetch.UserAgent)
}

func (m *Manager) setServerDefaults(defaults *Config) {
	m.viper.SetDefault("server.listen", defaults.Server.Listen)
	m.viper.SetDefault("server.read_timeout_seconds", defaults.Server.ReadTimeoutSeconds)
	m.viper.SetDefault("server.write_timeout_seconds", defaults.Server.WriteTimeoutSeconds)
}

func (m *Manager) setWatchDefaults(defaults *Config) {
	m.viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file.enabled", defaults.Logging.File.Enabled)
	m.viper.SetDefault("logging.file.max_size_mb", defaults.Logging.File.MaxSizeMB)
	m.viper.SetDefault("logging.file.max_backups", defaults.Logging.File.MaxBackups)
	m.viper.SetDefault("logging.file.max_age_days", defaults.Logging.File.MaxAgeDays)
	m.viper.SetDefault("logging.file.compress", defaults.Logging.File.Compress)
}

func (m *Manager) setAppearanceDefaults(defaults *Config) {
	m.viper.SetDefault("appearance.no_color", defaults.Appearance.NoColor)
	for name, value := range defaults.Appearance.Palette.Colors() {
		m.viper.SetDefault("appearance.palette."+name, value)
	}
}

// Global configuration manager instance
var (
	globalManager     *Manager
	globalManagerOnce sync.Once
)

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration, or the defaults before Init.
func Get() *Config {
	if globalManager == nil {
		return DefaultConfig()
	}
	return globalManager.Get()
}

// GetManager returns the global configuration manager.
func GetManager() *Manager {
	return globalManager
}
