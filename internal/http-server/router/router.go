package router

import (
	"net/http"

	"image-pipeline/internal/http-server/handler/batch"
	"image-pipeline/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	BatchHandler *batch.BatchHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/batches", func(r chi.Router) {
			r.Post("/", h.BatchHandler.Submit)
			r.Get("/{id}", h.BatchHandler.GetBatch)
			r.Get("/{id}/status", h.BatchHandler.GetStatus)
			r.Get("/{id}/files/{fileID}", h.BatchHandler.DownloadFile)
			r.Get("/{id}/archive", h.BatchHandler.DownloadArchive)
			r.Post("/{id}/export", h.BatchHandler.Export)
			r.Delete("/{id}", h.BatchHandler.Delete)
		})

		r.Get("/presets", h.BatchHandler.ListPresets)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
