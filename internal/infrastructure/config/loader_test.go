package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every XDG directory into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, "config", appName)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configName), []byte(content), 0o600))
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "white", mgr.viper.GetString("conversion.background"))
	assert.Equal(t, []int{16, 32, 48, 64, 128, 256}, mgr.viper.Get("conversion.sizes"))
	assert.Equal(t, 5, mgr.viper.GetInt("history.max_entries"))
	assert.Equal(t, 500, mgr.viper.GetInt("watch.debounce_ms"))
	assert.Equal(t, "#7C3AED", mgr.viper.GetString("appearance.palette.accent"))
	assert.True(t, mgr.viper.GetBool("logging.file.compress"))
}

func TestNormalizeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Conversion.Background = " None "
	cfg.Conversion.Sizes = []int{256, 16, 16}
	cfg.Conversion.MaxSourceBytes = 0
	cfg.Conversion.MaxSourcePixels = 0
	cfg.Conversion.PNGCompression = "BEST"
	cfg.Output.Layout = ""
	cfg.Logging.Level = "WARNING"
	cfg.Fetch.UserAgent = "  "

	normalizeConfig(cfg)

	assert.Equal(t, "transparent", cfg.Conversion.Background)
	assert.Equal(t, []int{16, 256}, cfg.Conversion.Sizes)
	assert.Equal(t, DefaultConfig().Conversion.MaxSourceBytes, cfg.Conversion.MaxSourceBytes)
	assert.Equal(t, DefaultConfig().Conversion.MaxSourcePixels, cfg.Conversion.MaxSourcePixels)
	assert.Equal(t, PNGCompressionBest, cfg.Conversion.PNGCompression)
	assert.Equal(t, "bundle", cfg.Output.Layout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, defaultUserAgent, cfg.Fetch.UserAgent)
}

func TestManagerLoad_CreatesDefaultConfig(t *testing.T) {
	root := isolate(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	configFile := filepath.Join(root, "config", appName, configName)
	assert.FileExists(t, configFile)
	assert.FileExists(t, filepath.Join(root, "config", appName, schemaName))
	assert.Equal(t, configFile, mgr.GetConfigFile())

	cfg := mgr.Get()
	assert.Equal(t, "white", cfg.Conversion.Background)
	assert.Equal(t, filepath.Join(root, "data", appName, databaseName), cfg.Database.Path)
	assert.Equal(t, 5, cfg.History.MaxEntries)
	assert.True(t, cfg.History.Enabled)
}

func TestManagerLoad_FileAndEnvironment(t *testing.T) {
	root := isolate(t)
	writeConfig(t, root, `
[conversion]
background = 'none'
sizes = [32, 16, 32]

[history]
max_entries = 12
`)
	t.Setenv("ICO256_SERVER_LISTEN", "127.0.0.1:9000")
	t.Setenv("ICO256_LOG_LEVEL", "debug")

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, "transparent", cfg.Conversion.Background)
	assert.Equal(t, []int{16, 32}, cfg.Conversion.Sizes)
	assert.Equal(t, 12, cfg.History.MaxEntries)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, defaultDebounceMs, cfg.Watch.DebounceMs)
}

func TestManagerLoad_RejectsInvalidValues(t *testing.T) {
	root := isolate(t)
	writeConfig(t, root, `
[conversion]
sizes = [24]

[output]
layout = 'tree'
`)

	mgr, err := NewManager()
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversion.sizes")
	assert.Contains(t, err.Error(), "output.layout")
}

func TestManagerSave_RoundTrip(t *testing.T) {
	isolate(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Output.Zip = true
	cfg.Conversion.Sizes = []int{16, 48}
	require.NoError(t, mgr.Save(cfg))
	assert.True(t, mgr.Get().Output.Zip)

	reloaded, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.Get().Output.Zip)
	assert.Equal(t, []int{16, 48}, reloaded.Get().Conversion.Sizes)
}

func TestManagerSave_Validates(t *testing.T) {
	isolate(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Fetch.Attempts = 0
	assert.ErrorContains(t, mgr.Save(cfg), "fetch.attempts")
	assert.Error(t, mgr.Save(nil))
}

func TestManagerGet_ReturnsCopy(t *testing.T) {
	mgr := &Manager{config: DefaultConfig()}

	cfg := mgr.Get()
	cfg.Conversion.Sizes[0] = 999
	cfg.Output.Dir = "elsewhere"

	assert.Equal(t, 16, mgr.Get().Conversion.Sizes[0])
	assert.Equal(t, defaultOutputDir, mgr.Get().Output.Dir)
}

func TestManagerReload_NotifiesCallbacks(t *testing.T) {
	root := isolate(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	var got *Config
	mgr.OnConfigChange(func(cfg *Config) { got = cfg })

	writeConfig(t, root, "[output]\ndir = 'out'\n")
	mgr.mu.Lock()
	require.NoError(t, mgr.reload())
	mgr.notifyCallbacksLocked()

	require.NotNil(t, got)
	assert.Equal(t, "out", got.Output.Dir)
}
