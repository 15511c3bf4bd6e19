// Package export writes planned bundles to disk or into zip archives.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/logging"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
	tempExt  = ".tmp"
)

// Writer implements port.BundleWriter.
type Writer struct {
	now func() time.Time
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{now: time.Now}
}

var _ port.BundleWriter = (*Writer)(nil)

// WriteDir writes every file below dir. Each file goes to a temp name first
// and is renamed into place, so readers never see a partial icon.
func (w *Writer) WriteDir(ctx context.Context, dir string, files []bundle.File) error {
	log := logging.FromContext(ctx)

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := localPath(dir, f.Path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}
		if err := writeAtomic(target, func(out io.Writer) error {
			_, err := out.Write(f.Data)
			return err
		}); err != nil {
			return err
		}
		log.Trace().Str("path", target).Int("bytes", len(f.Data)).Msg("file written")
	}
	return nil
}

// WriteZip writes an archive of files at archivePath, replacing it atomically.
func (w *Writer) WriteZip(ctx context.Context, archivePath string, files []bundle.File) error {
	if err := os.MkdirAll(filepath.Dir(archivePath), dirPerm); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(archivePath), err)
	}
	return writeAtomic(archivePath, func(out io.Writer) error {
		return w.EncodeZip(ctx, out, files)
	})
}

// EncodeZip streams a zip archive of files to out. PNG payloads are stored,
// everything else is deflated.
func (w *Writer) EncodeZip(ctx context.Context, out io.Writer, files []bundle.File) error {
	zw := zip.NewWriter(out)
	modified := w.now()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		if _, err := localPath(".", f.Path); err != nil {
			zw.Close()
			return err
		}

		header := &zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: modified,
		}
		if path.Ext(f.Path) == ".png" {
			header.Method = zip.Store
		}
		header.SetMode(filePerm)

		entry, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return fmt.Errorf("zip %s: %w", f.Path, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			zw.Close()
			return fmt.Errorf("zip %s: %w", f.Path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	return nil
}

// localPath joins a slash-separated bundle path below dir, refusing paths
// that would escape it.
func localPath(dir, rel string) (string, error) {
	native := filepath.FromSlash(rel)
	if !filepath.IsLocal(native) {
		return "", fmt.Errorf("bundle path %q escapes the export directory", rel)
	}
	return filepath.Join(dir, native), nil
}

func writeAtomic(target string, write func(io.Writer) error) error {
	tempPath := target + tempExt
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	if err := write(f); err != nil {
		f.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
