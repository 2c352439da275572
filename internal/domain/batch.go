package domain

import "time"

type BatchStatus string

const (
	BatchQueued     BatchStatus = "queued"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// Batch is one studio session: the uploaded files, the config they are
// processed with and, once done, the per-file results. It lives in memory
// only.
type Batch struct {
	ID         string
	Status     BatchStatus
	Config     ProcessingConfig
	PresetName string
	Files      []InputFile
	Progress   ProcessingProgress
	Results    []ProcessingResult
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b *Batch) Done() bool {
	return b.Status == BatchCompleted || b.Status == BatchFailed
}

// Result looks a processed file up by its result ID.
func (b *Batch) Result(id string) (ProcessingResult, bool) {
	for _, r := range b.Results {
		if r.ID == id {
			return r, true
		}
	}
	return ProcessingResult{}, false
}

// Successful returns the results that carry output bytes, in batch order.
func (b *Batch) Successful() []ProcessingResult {
	out := make([]ProcessingResult, 0, len(b.Results))
	for _, r := range b.Results {
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}
