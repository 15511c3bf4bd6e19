// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/cli/styles"
	"github.com/bnema/ico256/internal/domain/build"
	"github.com/bnema/ico256/internal/infrastructure/config"
	"github.com/bnema/ico256/internal/infrastructure/decoder"
	"github.com/bnema/ico256/internal/infrastructure/encoder"
	"github.com/bnema/ico256/internal/infrastructure/export"
	"github.com/bnema/ico256/internal/infrastructure/fetcher"
	"github.com/bnema/ico256/internal/infrastructure/filesystem"
	"github.com/bnema/ico256/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/ico256/internal/infrastructure/xdg"
	"github.com/bnema/ico256/internal/logging"
)

// Options controls how the App is assembled.
type Options struct {
	// Verbose logs to stderr. Otherwise only the log file, when enabled, receives logs.
	Verbose bool
}

// App holds CLI dependencies.
type App struct {
	Theme     *styles.Theme
	BuildInfo build.Info
	Manager   *config.Manager

	FS     *filesystem.Adapter
	XDG    *xdg.Adapter
	Writer  *export.Writer
	Encoder *encoder.PNGEncoder
	db     *sqlite.LazyDB

	// Use cases
	Load         *usecase.LoadSourceUseCase
	Convert      *usecase.ConvertImageUseCase
	Export       *usecase.ExportBundleUseCase
	History      *usecase.ManageHistoryUseCase
	ConvertFile  *usecase.ConvertFileUseCase
	Inspect      *usecase.InspectIconUseCase
	ConfigSchema *usecase.GetConfigSchemaUseCase
	Purge        *usecase.PurgeDataUseCase

	// Context with logger
	ctx       context.Context
	logCloser io.Closer

	mu     sync.RWMutex
	config *config.Config
}

// NewApp creates a new CLI application with all dependencies.
func NewApp(opts Options) (*App, error) {
	mgr, cfg := loadConfig()

	logger, logCloser := newLogger(cfg, opts.Verbose)
	ctx := logging.WithContext(context.Background(), logger)

	level, err := encoder.ParseCompression(string(cfg.Conversion.PNGCompression))
	if err != nil {
		closeQuietly(logCloser)
		return nil, fmt.Errorf("conversion.png_compression: %w", err)
	}

	fs := filesystem.New()
	xdgPaths := xdg.New()
	writer := export.NewWriter()
	fetch := fetcher.NewFetcher(fetcher.Options{
		Timeout:   time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Attempts:  uint(max(cfg.Fetch.Attempts, 1)),
		UserAgent: cfg.Fetch.UserAgent,
	})

	load := usecase.NewLoadSourceUseCase(fs, fetch, decoder.NewSniffer())
	pngEncoder := encoder.NewPNGEncoder(level)
	convert := usecase.NewConvertImageUseCase(decoder.NewDecoder(0, cfg.Conversion.MaxSourcePixels), pngEncoder, cfg.Conversion.Workers)
	exportUC := usecase.NewExportBundleUseCase(writer, fs)

	// The database file is only opened on first history access.
	db := sqlite.NewLazyDB(cfg.Database.Path)
	var history *usecase.ManageHistoryUseCase
	if cfg.History.Enabled {
		history = usecase.NewManageHistoryUseCase(sqlite.NewLazyConversionRepository(db), cfg.History.MaxEntries)
	}

	logger.Debug().
		Str("db_path", cfg.Database.Path).
		Bool("history", cfg.History.Enabled).
		Msg("cli initialized")

	app := &App{
		Theme:        styles.NewTheme(cfg),
		Manager:      mgr,
		FS:           fs,
		XDG:          xdgPaths,
		Writer:       writer,
		Encoder:      pngEncoder,
		db:           db,
		Load:         load,
		Convert:      convert,
		Export:       exportUC,
		History:      history,
		ConvertFile:  usecase.NewConvertFileUseCase(load, convert, exportUC, history),
		Inspect:      usecase.NewInspectIconUseCase(),
		ConfigSchema: usecase.NewGetConfigSchemaUseCase(config.NewSchemaProvider()),
		Purge:        usecase.NewPurgeDataUseCase(fs, xdgPaths),
		ctx:          ctx,
		logCloser:    logCloser,
		config:       cfg,
	}
	return app, nil
}

// Close releases all resources.
func (a *App) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
	}
	closeQuietly(a.logCloser)
	return err
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Config returns the current configuration.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// Settings resolves the conversion defaults of the current configuration.
func (a *App) Settings() (Settings, error) {
	return SettingsFromConfig(a.Config())
}

// CloseDatabase closes the history database if this process opened it.
func (a *App) CloseDatabase() error {
	if a.db == nil || !a.db.IsInitialized() {
		return nil
	}
	return a.db.Close()
}

// WatchConfig reloads the configuration when its file changes, so long-running
// commands pick up new conversion defaults. Only settings read per request
// are affected; the wiring built by NewApp stays as it was.
func (a *App) WatchConfig() error {
	if a.Manager == nil {
		return nil
	}
	a.Manager.OnConfigChange(func(cfg *config.Config) {
		a.mu.Lock()
		a.config = cfg
		a.mu.Unlock()
		logging.FromContext(a.ctx).Info().Msg("configuration reloaded")
	})
	return a.Manager.Watch()
}

// loadConfig loads configuration from standard locations, falling back to
// the defaults when the file is missing or invalid.
func loadConfig() (*config.Manager, *config.Config) {
	if err := config.Init(); err != nil {
		log := logging.NewFromEnv()
		log.Warn().Err(err).Msg("using default configuration")
		cfg := config.DefaultConfig()
		if path, pathErr := config.GetDatabaseFile(); pathErr == nil {
			cfg.Database.Path = path
		}
		return nil, cfg
	}
	return config.GetManager(), config.Get()
}

func newLogger(cfg *config.Config, verbose bool) (zerolog.Logger, io.Closer) {
	levelName := cfg.Logging.Level
	if env := os.Getenv(logging.EnvLevel); env != "" {
		levelName = env
		verbose = true
	}

	logCfg := logging.Config{
		Level:      logging.ParseLevel(levelName, zerolog.InfoLevel),
		Format:     logging.ParseFormat(cfg.Logging.Format),
		TimeFormat: "15:04:05",
		Output:     os.Stderr,
	}
	if !verbose {
		logCfg.Output = io.Discard
	}

	if !cfg.Logging.File.Enabled {
		if !verbose {
			return zerolog.Nop(), nil
		}
		return logging.New(logCfg), nil
	}

	dir, err := config.GetLogDir()
	if err == nil {
		logger, closer, fileErr := logging.NewWithFile(logCfg, dir, logging.RotateOptions{
			FileName:   logging.DefaultLogFileName,
			MaxSizeMB:  cfg.Logging.File.MaxSizeMB,
			MaxBackups: cfg.Logging.File.MaxBackups,
			MaxAgeDays: cfg.Logging.File.MaxAgeDays,
			Compress:   cfg.Logging.File.Compress,
		})
		if fileErr == nil {
			return logger, closer
		}
		err = fileErr
	}

	logger := logging.New(logCfg)
	logger.Warn().Err(err).Msg("log file disabled")
	return logger, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
