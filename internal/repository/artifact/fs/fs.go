package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"image-pipeline/internal/repository"
	"image-pipeline/internal/repository/artifact"
)

// DirRepository writes artifacts as plain files into one directory.
type DirRepository struct {
	dir string
}

func NewDirRepository(dir string) (*DirRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create output dir: %v", repository.ErrStorageError, err)
	}
	return &DirRepository{dir: dir}, nil
}

// SaveAll writes every entry and returns the written paths in order.
// Existing files with the same name are overwritten.
func (r *DirRepository) SaveAll(ctx context.Context, entries []artifact.Entry) ([]string, error) {
	paths := make([]string, 0, len(entries))

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path := filepath.Join(r.dir, filepath.Base(e.Name))
		if err := os.WriteFile(path, e.Data, 0o644); err != nil {
			return paths, fmt.Errorf("%w: failed to write %s: %v", repository.ErrStorageError, path, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// Create opens a new file in the directory for streaming writers such as
// the zip archive.
func (r *DirRepository) Create(name string) (*os.File, error) {
	path := filepath.Join(r.dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", repository.ErrStorageError, path, err)
	}
	return f, nil
}
