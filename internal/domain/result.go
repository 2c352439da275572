package domain

import (
	"path/filepath"
	"strings"
)

// InputFile is one user-supplied image. Size is the byte size reported by
// the source and is used for the original-size metric.
type InputFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// SizeKB is the original size in kilobytes (1 KB = 1024 bytes).
func (f InputFile) SizeKB() float64 {
	return BytesToKB(f.Size)
}

// ProcessOutput is what a single pipeline run yields for one file.
type ProcessOutput struct {
	Data           []byte
	MimeType       string
	Width          int
	Height         int
	OriginalSizeKB float64
	FinalSizeKB    float64
}

// ProcessingResult is created once per file at the end of its pipeline run.
type ProcessingResult struct {
	ID             string
	Original       InputFile
	Data           []byte
	MimeType       string
	Filename       string
	OriginalSizeKB float64
	FinalSizeKB    float64
	Success        bool
	Error          string
}

// SavedKB is the size delta; negative when the output grew.
func (r ProcessingResult) SavedKB() float64 {
	if !r.Success {
		return 0
	}
	return r.OriginalSizeKB - r.FinalSizeKB
}

type ProcessingProgress struct {
	Current         int    `json:"current"`
	Total           int    `json:"total"`
	CurrentFileName string `json:"current_file_name"`
	Percentage      int    `json:"percentage"`
}

// BatchSummary aggregates a finished batch for the results view.
type BatchSummary struct {
	Total     int     `json:"total"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	SavedKB   float64 `json:"saved_kb"`
}

func Summarize(results []ProcessingResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
			s.SavedKB += r.SavedKB()
		} else {
			s.Failed++
		}
	}
	return s
}

func BytesToKB(n int64) float64 {
	return float64(n) / 1024
}

// OutputFilename strips the last extension of the original name and appends
// the one implied by the MIME type, e.g. ("photo.png", "image/jpeg") gives
// "photo.jpeg".
func OutputFilename(original, mimeType string) string {
	base := filepath.Base(original)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}

	ext := mimeType
	if i := strings.LastIndex(mimeType, "/"); i >= 0 {
		ext = mimeType[i+1:]
	}
	if ext == "" {
		return base
	}
	return base + "." + ext
}
