package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"resume-scanner/internal/shared/storage/object"
	"resume-scanner/internal/shared/util"
)

// Store implements FileStore on the local filesystem.
type Store struct{}

// New creates a local file store.
func New() object.FileStore {
	return &Store{}
}

// EnsureFolder creates the folder if it does not exist.
func (s *Store) EnsureFolder(folderPath string) error {
	return os.MkdirAll(folderPath, 0o755)
}

// Save writes the reader to folderPath/fileName, creating the folder as
// needed. The file name is sanitized against path traversal.
func (s *Store) Save(ctx context.Context, folderPath, fileName string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return 0, fmt.Errorf("save file: %w", err)
	}
	if err := s.EnsureFolder(folderPath); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(folderPath, name)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(ctx context.Context, folderPath, fileName string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(folderPath, name))
}

// List returns the full paths of regular files in the folder, sorted by name.
// A missing folder yields an empty list, not an error.
func (s *Store) List(ctx context.Context, folderPath string) ([]string, error) {
	entries, err := s.readDir(ctx, folderPath)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, name := range entries {
		out = append(out, filepath.Join(folderPath, name))
	}
	return out, nil
}

// ListNames returns the base names of regular files in the folder.
func (s *Store) ListNames(ctx context.Context, folderPath string) ([]string, error) {
	return s.readDir(ctx, folderPath)
}

// Delete removes folderPath/fileName and reports whether it existed.
func (s *Store) Delete(ctx context.Context, folderPath, fileName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return false, err
	}
	err = os.Remove(filepath.Join(folderPath, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) readDir(ctx context.Context, folderPath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

var _ object.FileStore = (*Store)(nil)
