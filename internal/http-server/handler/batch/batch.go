package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/http-server/handler/batch/dto"
	batch_uc "image-pipeline/internal/usecase/batch"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory = 32 << 20
)

var filesKeys = []string{"files", "files[]"}

type BatchHandler struct {
	usecase       batchUsecase
	validate      *validator.Validate
	logger        *zlog.Zerolog
	maxUploadSize int64
}

func NewBatchHandler(usecase batchUsecase, maxUploadSize int64, logger *zlog.Zerolog) *BatchHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = domain.DefaultMaxUploadSize
	}
	return &BatchHandler{
		usecase:       usecase,
		validate:      validator.New(),
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

func (h *BatchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "Upload too large", nil)
			return
		}
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := dto.SubmitRequest{
		Preset: r.FormValue("preset"),
		Config: r.FormValue("config"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request parameters", err)
		return
	}

	var cfg *domain.ProcessingConfig
	if req.Config != "" {
		parsed := domain.DefaultConfig()
		if err := json.Unmarshal([]byte(req.Config), &parsed); err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid config JSON", err)
			return
		}
		cfg = &parsed
	}

	var headers []*multipart.FileHeader
	for _, key := range filesKeys {
		headers = append(headers, r.MultipartForm.File[key]...)
	}

	files, skipped, err := h.readFiles(headers)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to read files", err)
		return
	}

	b, err := h.usecase.Submit(ctx, batch_uc.SubmitRequest{
		Files:      files,
		Config:     cfg,
		PresetName: req.Preset,
	})
	if err != nil {
		h.handleSubmitError(w, err)
		return
	}

	h.logger.Info().
		Str("batch_id", b.ID).
		Int("files", len(files)).
		Int("skipped", len(skipped)).
		Msg("Batch submitted")

	h.respondJSON(w, http.StatusAccepted, dto.SubmitResponse{
		ID:        b.ID,
		Status:    string(b.Status),
		Files:     len(files),
		Skipped:   skipped,
		Preset:    b.PresetName,
		CreatedAt: b.CreatedAt,
	})
}

// readFiles keeps the uploads whose content sniffs as an image and returns
// the names of the others.
func (h *BatchHandler) readFiles(headers []*multipart.FileHeader) ([]domain.InputFile, []string, error) {
	files := make([]domain.InputFile, 0, len(headers))
	var skipped []string

	for _, fh := range headers {
		file, err := h.readFile(fh)
		if err != nil {
			if errors.Is(err, ErrNotAnImage) || errors.Is(err, ErrFileTooLarge) {
				h.logger.Warn().Err(err).Str("filename", fh.Filename).Msg("Skipping upload")
				skipped = append(skipped, fh.Filename)
				continue
			}
			return nil, nil, err
		}
		files = append(files, file)
	}

	return files, skipped, nil
}

func (h *BatchHandler) readFile(fh *multipart.FileHeader) (domain.InputFile, error) {
	if fh.Size > h.maxUploadSize {
		return domain.InputFile{}, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return domain.InputFile{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.InputFile{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return domain.InputFile{}, fmt.Errorf("%w: %s", ErrNotAnImage, mime.String())
	}

	return domain.InputFile{
		Name:        fh.Filename,
		ContentType: mime.String(),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func (h *BatchHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	req := dto.BatchRequest{ID: chi.URLParam(r, "id")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid batch ID", nil)
		return
	}

	b, err := h.usecase.GetBatch(r.Context(), req.ID)
	if err != nil {
		h.handleBatchError(w, err, req.ID)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.StatusResponse{
		ID:     b.ID,
		Status: string(b.Status),
		Progress: dto.ProgressResponse{
			Current:         b.Progress.Current,
			Total:           b.Progress.Total,
			CurrentFileName: b.Progress.CurrentFileName,
			Percentage:      b.Progress.Percentage,
		},
		Error: b.Error,
	})
}

func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	req := dto.BatchRequest{ID: chi.URLParam(r, "id")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid batch ID", nil)
		return
	}

	b, err := h.usecase.GetBatch(r.Context(), req.ID)
	if err != nil {
		h.handleBatchError(w, err, req.ID)
		return
	}

	h.respondJSON(w, http.StatusOK, toBatchResponse(b))
}

func (h *BatchHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	req := dto.FileRequest{
		ID:     chi.URLParam(r, "id"),
		FileID: chi.URLParam(r, "fileID"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid batch or file ID", nil)
		return
	}

	result, err := h.usecase.GetFile(r.Context(), req.ID, req.FileID)
	if err != nil {
		h.handleBatchError(w, err, req.ID)
		return
	}

	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(result.Data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.Data); err != nil {
		h.logger.Error().Err(err).Str("batch_id", req.ID).Str("file_id", req.FileID).Msg("Failed to stream file")
	}
}

func (h *BatchHandler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	req := dto.BatchRequest{ID: chi.URLParam(r, "id")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid batch ID", nil)
		return
	}

	buf := new(bytes.Buffer)
	if err := h.usecase.WriteArchive(r.Context(), req.ID, buf); err != nil {
		h.handleBatchError(w, err, req.ID)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.ArchiveFilename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, buf); err != nil {
		h.logger.Error().Err(err).Str("batch_id", req.ID).Msg("Failed to stream archive")
	}
}

func (h *BatchHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := dto.BatchRequest{ID: chi.URLParam(r, "id")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid batch ID", nil)
		return
	}

	keys, err := h.usecase.Export(r.Context(), req.ID)
	if err != nil {
		h.handleBatchError(w, err, req.ID)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ExportResponse{ID: req.ID, Objects: keys})
}

func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	req := dto.BatchRequest{ID: chi.URLParam(r, "id")}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid batch ID", nil)
		return
	}

	if err := h.usecase.Delete(r.Context(), req.ID); err != nil {
		h.handleBatchError(w, err, req.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BatchHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := h.usecase.ListPresets()

	response := make([]dto.PresetResponse, 0, len(presets))
	for _, p := range presets {
		response = append(response, dto.PresetResponse{
			Name:        p.Name,
			Slug:        p.Slug(),
			Description: p.Description,
			Config:      p.Config,
		})
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *BatchHandler) handleSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, batch_uc.ErrNoFiles):
		h.respondError(w, http.StatusBadRequest, "At least one image file is required", nil)
	case errors.Is(err, batch_uc.ErrInvalidConfig):
		h.respondError(w, http.StatusBadRequest, "Invalid processing config", err)
	case errors.Is(err, batch_uc.ErrPresetNotFound):
		h.respondError(w, http.StatusBadRequest, "Unknown preset", err)
	case errors.Is(err, batch_uc.ErrMessageQueueError):
		h.logger.Warn().Err(err).Msg("Processing queue unavailable")
		h.respondError(w, http.StatusServiceUnavailable, "Processing queue is busy, try again later", nil)
	default:
		h.logger.Error().Err(err).Msg("Batch submit failed")
		h.respondError(w, http.StatusInternalServerError, "Failed to submit batch", err)
	}
}

func (h *BatchHandler) handleBatchError(w http.ResponseWriter, err error, batchID string) {
	switch {
	case errors.Is(err, batch_uc.ErrBatchNotFound):
		h.respondError(w, http.StatusNotFound, "Batch not found", nil)
	case errors.Is(err, batch_uc.ErrFileNotFound):
		h.respondError(w, http.StatusNotFound, "Processed file not found", nil)
	case errors.Is(err, batch_uc.ErrBatchNotReady):
		h.respondError(w, http.StatusConflict, "Batch is still processing", nil)
	case errors.Is(err, batch_uc.ErrNoResults):
		h.respondError(w, http.StatusConflict, "Batch has no successfully processed files", nil)
	case errors.Is(err, batch_uc.ErrExportDisabled):
		h.respondError(w, http.StatusNotImplemented, "Export is not configured", nil)
	case errors.Is(err, batch_uc.ErrStorageError):
		h.logger.Error().Err(err).Str("batch_id", batchID).Msg("Storage failure")
		h.respondError(w, http.StatusBadGateway, "Storage failure", err)
	default:
		h.logger.Error().Err(err).Str("batch_id", batchID).Msg("Batch request failed")
		h.respondError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func toBatchResponse(b *domain.Batch) dto.BatchResponse {
	summary := domain.Summarize(b.Results)

	response := dto.BatchResponse{
		ID:     b.ID,
		Status: string(b.Status),
		Preset: b.PresetName,
		Error:  b.Error,
		Summary: dto.SummaryResponse{
			Total:     summary.Total,
			Succeeded: summary.Succeeded,
			Failed:    summary.Failed,
			SavedKB:   summary.SavedKB,
		},
		Files:     make([]dto.FileResponse, 0, len(b.Results)),
		CreatedAt: b.CreatedAt,
	}

	for _, r := range b.Results {
		file := dto.FileResponse{
			ID:             r.ID,
			OriginalName:   r.Original.Name,
			Filename:       r.Filename,
			MimeType:       r.MimeType,
			OriginalSizeKB: r.OriginalSizeKB,
			FinalSizeKB:    r.FinalSizeKB,
			SavedKB:        r.SavedKB(),
			Success:        r.Success,
			Error:          r.Error,
		}
		if r.Success {
			file.DownloadURL = fmt.Sprintf("/api/batches/%s/files/%s", b.ID, r.ID)
		}
		response.Files = append(response.Files, file)
	}

	if b.Done() {
		completed := b.UpdatedAt
		response.CompletedAt = &completed
		if summary.Succeeded > 0 {
			response.ArchiveURL = fmt.Sprintf("/api/batches/%s/archive", b.ID)
		}
	}

	return response
}

func (h *BatchHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *BatchHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
