package dto

import (
	"time"

	"image-pipeline/internal/domain"
)

type SubmitResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Files     int       `json:"files"`
	Skipped   []string  `json:"skipped,omitempty"`
	Preset    string    `json:"preset,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ProgressResponse struct {
	Current         int    `json:"current"`
	Total           int    `json:"total"`
	CurrentFileName string `json:"current_file_name"`
	Percentage      int    `json:"percentage"`
}

type StatusResponse struct {
	ID       string           `json:"id"`
	Status   string           `json:"status"`
	Progress ProgressResponse `json:"progress"`
	Error    string           `json:"error,omitempty"`
}

type FileResponse struct {
	ID             string  `json:"id"`
	OriginalName   string  `json:"original_name"`
	Filename       string  `json:"filename,omitempty"`
	MimeType       string  `json:"mime_type,omitempty"`
	OriginalSizeKB float64 `json:"original_size_kb"`
	FinalSizeKB    float64 `json:"final_size_kb"`
	SavedKB        float64 `json:"saved_kb"`
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
	DownloadURL    string  `json:"download_url,omitempty"`
}

type SummaryResponse struct {
	Total     int     `json:"total"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	SavedKB   float64 `json:"saved_kb"`
}

type BatchResponse struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Preset      string          `json:"preset,omitempty"`
	Error       string          `json:"error,omitempty"`
	Summary     SummaryResponse `json:"summary"`
	Files       []FileResponse  `json:"files"`
	ArchiveURL  string          `json:"archive_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type ExportResponse struct {
	ID      string   `json:"id"`
	Objects []string `json:"objects"`
}

type PresetResponse struct {
	Name        string                  `json:"name"`
	Slug        string                  `json:"slug"`
	Description string                  `json:"description"`
	Config      domain.ProcessingConfig `json:"config"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
