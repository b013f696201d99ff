package object

import (
	"context"
	"io"
)

// FileStore defines the contract for the resume folder: saving uploads,
// enumerating scan inputs, and serving downloads/deletes.
type FileStore interface {
	EnsureFolder(folderPath string) error
	Save(ctx context.Context, folderPath, fileName string, r io.Reader) (int64, error)
	Open(ctx context.Context, folderPath, fileName string) (io.ReadCloser, error)
	// List returns full paths; ListNames returns base names only.
	List(ctx context.Context, folderPath string) ([]string, error)
	ListNames(ctx context.Context, folderPath string) ([]string, error)
	// Delete reports whether the file existed.
	Delete(ctx context.Context, folderPath, fileName string) (bool, error)
}
