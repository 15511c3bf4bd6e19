package port

import (
	"context"
	"io"

	"github.com/bnema/ico256/internal/domain/bundle"
)

// BundleWriter persists planned bundle files.
type BundleWriter interface {
	// WriteDir writes files below dir, replacing each file atomically.
	WriteDir(ctx context.Context, dir string, files []bundle.File) error
	// WriteZip writes files into a zip archive at path.
	WriteZip(ctx context.Context, path string, files []bundle.File) error
	// EncodeZip streams a zip archive of files to w.
	EncodeZip(ctx context.Context, w io.Writer, files []bundle.File) error
}
