package batch

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"image-pipeline/internal/broker/queue"
	"image-pipeline/internal/domain"
	"image-pipeline/internal/repository/artifact"
	"image-pipeline/internal/repository/batch/memory"
	"image-pipeline/internal/repository/preset"
	"image-pipeline/internal/usecase/processor"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

var once = retry.Strategy{Attempts: 1, Delay: time.Millisecond, Backoff: 1}

type fakeExporter struct {
	batchID string
	entries []artifact.Entry
	err     error
}

func (f *fakeExporter) Export(ctx context.Context, batchID string, entries []artifact.Entry) ([]string, error) {
	f.batchID = batchID
	f.entries = entries
	if f.err != nil {
		return nil, f.err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, batchID+"/"+e.Name)
	}
	return keys, nil
}

type fixture struct {
	usecase *BatchUsecase
	repo    *memory.BatchRepository
	queue   *queue.Queue
}

func newFixture(t *testing.T, exp exporter, queueSize int, defaultPreset string) *fixture {
	t.Helper()
	presets, err := preset.NewRepository()
	require.NoError(t, err)

	repo := memory.NewBatchRepository()
	q := queue.New(queueSize)
	uc := NewBatchUsecase(repo, presets, q, processor.NewConfigValidator(), exp, defaultPreset, &zlog.Logger, once)

	return &fixture{usecase: uc, repo: repo, queue: q}
}

func files(names ...string) []domain.InputFile {
	out := make([]domain.InputFile, 0, len(names))
	for _, n := range names {
		out = append(out, domain.InputFile{Name: n, Size: 3, Data: []byte("abc")})
	}
	return out
}

// complete stands in for the worker.
func (f *fixture) complete(t *testing.T, id string, results []domain.ProcessingResult) {
	t.Helper()
	require.NoError(t, f.repo.SaveResults(context.Background(), id, results))
}

func TestSubmit_ResolvesConfig(t *testing.T) {
	ctx := context.Background()

	custom := domain.DefaultConfig()
	custom.Conversion.Format = domain.FormatPNG

	tests := []struct {
		name          string
		defaultPreset string
		req           SubmitRequest
		wantPreset    string
		wantFormat    domain.ImageFormat
	}{
		{"default config", "", SubmitRequest{Files: files("a.png")}, "", domain.FormatJPEG},
		{"default preset", "website-banner", SubmitRequest{Files: files("a.png")}, "Website Banner", domain.FormatWebP},
		{"explicit config", "website-banner", SubmitRequest{Files: files("a.png"), Config: &custom}, "", domain.FormatPNG},
		{"preset wins over config", "", SubmitRequest{Files: files("a.png"), Config: &custom, PresetName: "Profile Picture"}, "Profile Picture", domain.FormatJPEG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, 4, tt.defaultPreset)

			b, err := f.usecase.Submit(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, domain.BatchQueued, b.Status)
			assert.Equal(t, tt.wantPreset, b.PresetName)
			assert.Equal(t, tt.wantFormat, b.Config.Conversion.Format)
			assert.Equal(t, 1, b.Progress.Total)
			assert.Equal(t, int64(1), f.queue.Pending())

			stored, err := f.usecase.GetBatch(ctx, b.ID)
			require.NoError(t, err)
			assert.Len(t, stored.Files, 1)
		})
	}
}

func TestSubmit_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, 4, "")

	_, err := f.usecase.Submit(ctx, SubmitRequest{})
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = f.usecase.Submit(ctx, SubmitRequest{Files: files("a.png"), PresetName: "nope"})
	assert.ErrorIs(t, err, ErrPresetNotFound)

	bad := domain.DefaultConfig()
	bad.Resize = domain.ResizeConfig{Enabled: true, Width: -5, Height: 10, Mode: domain.ResizePad}
	_, err = f.usecase.Submit(ctx, SubmitRequest{Files: files("a.png"), Config: &bad})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	assert.Zero(t, f.queue.Pending())
}

func TestSubmit_QueueFullMarksBatchFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, 1, "")

	_, err := f.usecase.Submit(ctx, SubmitRequest{Files: files("a.png")})
	require.NoError(t, err)

	_, err = f.usecase.Submit(ctx, SubmitRequest{Files: files("b.png")})
	assert.ErrorIs(t, err, ErrMessageQueueError)
}

func TestDownloads(t *testing.T) {
	ctx := context.Background()
	exp := &fakeExporter{}
	f := newFixture(t, exp, 4, "")

	b, err := f.usecase.Submit(ctx, SubmitRequest{Files: files("a.png", "b.png")})
	require.NoError(t, err)

	_, err = f.usecase.GetFile(ctx, b.ID, "r1")
	assert.ErrorIs(t, err, ErrBatchNotReady)
	assert.ErrorIs(t, f.usecase.WriteArchive(ctx, b.ID, new(bytes.Buffer)), ErrBatchNotReady)

	f.complete(t, b.ID, []domain.ProcessingResult{
		{ID: "r1", Success: true, Filename: "a.jpeg", MimeType: "image/jpeg", Data: []byte("jpeg")},
		{ID: "r2", Success: false, Error: "failed to decode image"},
	})

	r, err := f.usecase.GetFile(ctx, b.ID, "r1")
	require.NoError(t, err)
	assert.Equal(t, "a.jpeg", r.Filename)

	_, err = f.usecase.GetFile(ctx, b.ID, "r2")
	assert.ErrorIs(t, err, ErrFileNotFound)
	_, err = f.usecase.GetFile(ctx, b.ID, "missing")
	assert.ErrorIs(t, err, ErrFileNotFound)

	buf := new(bytes.Buffer)
	require.NoError(t, f.usecase.WriteArchive(ctx, b.ID, buf))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "a.jpeg", zr.File[0].Name)

	keys, err := f.usecase.Export(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID + "/a.jpeg"}, keys)
	assert.Equal(t, b.ID, exp.batchID)

	exp.err = errors.New("connection refused")
	_, err = f.usecase.Export(ctx, b.ID)
	assert.ErrorIs(t, err, ErrStorageError)
}

func TestDownloads_NoSuccessfulFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &fakeExporter{}, 4, "")

	b, err := f.usecase.Submit(ctx, SubmitRequest{Files: files("a.png")})
	require.NoError(t, err)
	f.complete(t, b.ID, []domain.ProcessingResult{{ID: "r1", Error: "boom"}})

	assert.ErrorIs(t, f.usecase.WriteArchive(ctx, b.ID, new(bytes.Buffer)), ErrNoResults)
	_, err = f.usecase.Export(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestExport_Disabled(t *testing.T) {
	f := newFixture(t, nil, 4, "")
	_, err := f.usecase.Export(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrExportDisabled)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, 4, "")

	b, err := f.usecase.Submit(ctx, SubmitRequest{Files: files("a.png")})
	require.NoError(t, err)

	require.NoError(t, f.usecase.Delete(ctx, b.ID))
	assert.ErrorIs(t, f.usecase.Delete(ctx, b.ID), ErrBatchNotFound)
	_, err = f.usecase.GetBatch(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestListPresets(t *testing.T) {
	f := newFixture(t, nil, 4, "")
	assert.Len(t, f.usecase.ListPresets(), 4)
}
