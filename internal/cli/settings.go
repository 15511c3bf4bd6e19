package cli

import (
	"fmt"
	"time"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/infrastructure/config"
	"github.com/bnema/ico256/internal/infrastructure/httpapi"
)

// Settings are the conversion defaults resolved from the configuration.
// Command flags override individual fields.
type Settings struct {
	Background     entity.Background
	Sizes          []entity.IconSize
	Layout         bundle.Layout
	OutputDir      string
	Zip            bool
	KeepExisting   bool
	MaxSourceBytes int64
}

// SettingsFromConfig parses the conversion and output sections of cfg.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	background, err := entity.ParseBackground(cfg.Conversion.Background)
	if err != nil {
		return Settings{}, fmt.Errorf("conversion.background: %w", err)
	}
	sizes, err := entity.SizesFromInts(cfg.Conversion.Sizes)
	if err != nil {
		return Settings{}, fmt.Errorf("conversion.sizes: %w", err)
	}
	layout, err := bundle.ParseLayout(cfg.Output.Layout)
	if err != nil {
		return Settings{}, fmt.Errorf("output.layout: %w", err)
	}

	return Settings{
		Background:     background,
		Sizes:          sizes,
		Layout:         layout,
		OutputDir:      cfg.Output.Dir,
		Zip:            cfg.Output.Zip,
		KeepExisting:   cfg.Output.KeepExisting,
		MaxSourceBytes: cfg.Conversion.MaxSourceBytes,
	}, nil
}

// Input builds the conversion request for ref.
func (s Settings) Input(ref string) usecase.ConvertFileInput {
	return usecase.ConvertFileInput{
		Ref:            ref,
		OutputDir:      s.OutputDir,
		Background:     s.Background,
		Sizes:          s.Sizes,
		Layout:         s.Layout,
		Zip:            s.Zip,
		KeepExisting:   s.KeepExisting,
		MaxSourceBytes: s.MaxSourceBytes,
	}
}

// ServerOptions maps the settings and the server section to HTTP API options.
func (s Settings) ServerOptions(srv config.ServerConfig) httpapi.Options {
	return httpapi.Options{
		Background:     s.Background,
		Sizes:          s.Sizes,
		Layout:         s.Layout,
		MaxSourceBytes: s.MaxSourceBytes,
		ReadTimeout:    time.Duration(srv.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(srv.WriteTimeoutSeconds) * time.Second,
	}
}
