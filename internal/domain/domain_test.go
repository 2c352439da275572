package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		original string
		mime     string
		want     string
	}{
		{"photo.png", "image/jpeg", "photo.jpeg"},
		{"archive.tar.gz", "image/webp", "archive.tar.webp"},
		{"noext", "image/png", "noext.png"},
		{".hidden", "image/png", ".hidden.png"},
		{"dir/pic.JPG", "image/jpeg", "pic.jpeg"},
		{"pic.bmp", "", "pic"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.original, tt.mime))
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []ProcessingResult{
		{Success: true, OriginalSizeKB: 300, FinalSizeKB: 100},
		{Success: true, OriginalSizeKB: 10, FinalSizeKB: 30},
		{Success: false, OriginalSizeKB: 50, Error: "decode failed"},
	}

	s := Summarize(results)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.InDelta(t, 180.0, s.SavedKB, 1e-9)
}

func TestBuiltinPresets(t *testing.T) {
	presets := BuiltinPresets()
	assert.Len(t, presets, 4)

	slugs := make(map[string]bool)
	for _, p := range presets {
		slugs[p.Slug()] = true
		assert.True(t, p.Config.Resize.Enabled, p.Name)
	}
	assert.True(t, slugs["profile-picture"])
	assert.True(t, slugs["e-commerce-product"])
}
