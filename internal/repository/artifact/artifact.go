// Package artifact turns processed results into named files for the
// download destinations: a directory, a zip archive or an object store.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"

	"image-pipeline/internal/domain"
)

type Entry struct {
	Name     string
	MimeType string
	Data     []byte
}

// Entries collects the successful results in batch order. Two inputs that
// map onto the same output name ("a.png" and "a.jpg" both become
// "a.jpeg") get a numeric suffix on the later one.
func Entries(results []domain.ProcessingResult) []Entry {
	taken := make(map[string]bool)
	entries := make([]Entry, 0, len(results))

	for _, r := range results {
		if !r.Success {
			continue
		}

		name := r.Filename
		if name == "" {
			name = domain.OutputFilename(r.Original.Name, r.MimeType)
		}
		name = unique(name, taken)

		entries = append(entries, Entry{
			Name:     name,
			MimeType: r.MimeType,
			Data:     r.Data,
		})
	}

	return entries
}

func unique(name string, taken map[string]bool) string {
	key := strings.ToLower(name)
	if !taken[key] {
		taken[key] = true
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
		if !taken[strings.ToLower(candidate)] {
			taken[strings.ToLower(candidate)] = true
			return candidate
		}
	}
}
