package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/logging"
)

// ExportBundleInput describes where and how to write a run's files.
type ExportBundleInput struct {
	Run       *entity.ConversionRun
	OutputDir string
	Layout    bundle.Layout
	// Zip writes a single archive instead of loose files.
	Zip bool
	// KeepExisting picks a fresh name instead of overwriting a previous export.
	KeepExisting bool
}

// ExportBundleOutput reports what was written.
type ExportBundleOutput struct {
	// Path is the export directory, or the archive path when zipped.
	Path  string
	Files []string
	Bytes int64
}

// ExportBundleUseCase writes a run below OutputDir/<source stem>.
type ExportBundleUseCase struct {
	writer port.BundleWriter
	fs     port.FileSystem
}

// NewExportBundleUseCase creates a new ExportBundleUseCase.
// If fs is nil, KeepExisting is ignored.
func NewExportBundleUseCase(writer port.BundleWriter, fs port.FileSystem) *ExportBundleUseCase {
	return &ExportBundleUseCase{writer: writer, fs: fs}
}

// Execute plans and writes the export.
func (uc *ExportBundleUseCase) Execute(ctx context.Context, input ExportBundleInput) (*ExportBundleOutput, error) {
	log := logging.FromContext(ctx)
	if input.Run == nil {
		return nil, errors.New("no conversion run to export")
	}

	layout := input.Layout
	if layout == "" {
		layout = bundle.LayoutBundle
	}
	files, err := bundle.Plan(input.Run, layout)
	if err != nil {
		return nil, err
	}

	name := source.Stem(input.Run.SourceName)
	if input.KeepExisting && uc.fs != nil {
		name = source.MakeUniqueName(input.OutputDir, name, func(path string) bool {
			exists, err := uc.fs.Exists(ctx, path)
			return err == nil && exists
		})
	}
	dir := filepath.Join(input.OutputDir, name)

	out := &ExportBundleOutput{Path: dir, Bytes: bundle.TotalBytes(files)}
	for _, f := range files {
		out.Files = append(out.Files, f.Path)
	}

	if input.Zip {
		out.Path = filepath.Join(dir, bundle.ArchiveName)
		if err := uc.writer.WriteZip(ctx, out.Path, files); err != nil {
			return nil, fmt.Errorf("write %s: %w", out.Path, err)
		}
	} else if err := uc.writer.WriteDir(ctx, dir, files); err != nil {
		return nil, fmt.Errorf("write %s: %w", dir, err)
	}

	log.Info().
		Str("path", out.Path).
		Str("layout", string(layout)).
		Int("files", len(files)).
		Int64("bytes", out.Bytes).
		Msg("bundle exported")
	return out, nil
}
