package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"image-pipeline/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

// collectInputs expands directories (recursively) and keeps only files
// whose content sniffs as an image. The returned names are the ones that
// were skipped.
func collectInputs(paths []string) ([]domain.InputFile, []string, error) {
	var candidates []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			candidates = append(candidates, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
		sort.Strings(found)
		candidates = append(candidates, found...)
	}

	files := make([]domain.InputFile, 0, len(candidates))
	var skipped []string

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		mime := mimetype.Detect(data)
		if !strings.HasPrefix(mime.String(), "image/") {
			skipped = append(skipped, path)
			continue
		}

		files = append(files, domain.InputFile{
			Name:        filepath.Base(path),
			ContentType: mime.String(),
			Size:        int64(len(data)),
			Data:        data,
		})
	}

	return files, skipped, nil
}
