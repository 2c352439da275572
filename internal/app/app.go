package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"image-pipeline/internal/broker/queue"
	"image-pipeline/internal/config"
	batch_h "image-pipeline/internal/http-server/handler/batch"
	"image-pipeline/internal/http-server/router"
	"image-pipeline/internal/repository"
	minio_repo "image-pipeline/internal/repository/artifact/minio"
	"image-pipeline/internal/repository/batch/memory"
	"image-pipeline/internal/repository/preset"
	batch_uc "image-pipeline/internal/usecase/batch"
	"image-pipeline/internal/usecase/processor"
	"image-pipeline/internal/usecase/processor/surface"
	"image-pipeline/internal/worker"

	"github.com/wb-go/wbf/zlog"
)

// App is the local studio: a loopback HTTP server plus the single batch
// worker, sharing one in-memory session store.
type App struct {
	cfg    *config.Config
	server *http.Server
	worker *worker.Worker
	queue  *queue.Queue
	logger *zlog.Zerolog
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	resampler, err := surface.NewResampler(cfg.Processing.Resampler)
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	presets, err := preset.NewFromFile(cfg.Processing.PresetsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	if cfg.Processing.DefaultPreset != "" {
		if _, err := presets.Find(cfg.Processing.DefaultPreset); err != nil {
			return nil, fmt.Errorf("invalid default preset: %w", err)
		}
	}

	exporter, err := minio_repo.NewExportRepository(cfg.Export, retries, logger)
	if err != nil && !errors.Is(err, repository.ErrExportDisabled) {
		return nil, fmt.Errorf("failed to create export repository: %w", err)
	}

	imageProcessor := processor.NewImageProcessor(resampler, logger)
	batchRepo := memory.NewBatchRepository()
	batchQueue := queue.New(cfg.Studio.QueueSize)

	var batchUsecase *batch_uc.BatchUsecase
	if exporter != nil {
		batchUsecase = batch_uc.NewBatchUsecase(batchRepo, presets, batchQueue, imageProcessor, exporter, cfg.Processing.DefaultPreset, logger, retries)
	} else {
		batchUsecase = batch_uc.NewBatchUsecase(batchRepo, presets, batchQueue, imageProcessor, nil, cfg.Processing.DefaultPreset, logger, retries)
	}

	batchHandler := batch_h.NewBatchHandler(batchUsecase, cfg.Server.MaxUploadSize, logger)

	h := &router.Handler{
		BatchHandler: batchHandler,
	}

	mux := router.SetupRouter(h)

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info().
		Str("resampler", resampler.Name()).
		Int("presets", len(presets.List())).
		Bool("export", exporter != nil).
		Int("queue_size", cfg.Studio.QueueSize).
		Msg("Studio configuration")

	return &App{
		cfg:    cfg,
		server: server,
		worker: worker.NewWorker(batchQueue, imageProcessor, batchRepo, logger),
		queue:  batchQueue,
		logger: logger,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.server.Addr).Msg("Starting studio server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.worker.Run(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		runErr = err
		cancel()
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}
	}

	// the in-flight batch always runs to completion
	wg.Wait()

	if err := a.queue.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close queue")
	}

	a.logger.Info().Msg("Studio stopped gracefully")
	return runErr
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
