package port

import "context"

// FileSystem provides file system operations for the application layer.
type FileSystem interface {
	Exists(ctx context.Context, path string) (bool, error)
	IsDirectory(ctx context.Context, path string) (bool, error)
	GetSize(ctx context.Context, path string) (int64, error)
	// ReadFile reads at most limit+1 bytes of path.
	ReadFile(ctx context.Context, path string, limit int64) ([]byte, error)
	RemoveAll(ctx context.Context, path string) error
}
