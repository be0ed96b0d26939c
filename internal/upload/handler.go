package upload

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"streamflux/internal/platform/metrics"
	"streamflux/internal/platform/respond"
)

// formField is the multipart field carrying the image.
const formField = "image"

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

// Handler exposes image upload and serving.
type Handler struct {
	storage *Storage
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler. Metrics may be nil.
func NewHandler(storage *Storage, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{storage: storage, log: log, metrics: m}
}

// Upload handles POST /upload with a multipart "image" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	limitMsg := "File size exceeds " + sizeLabel(h.storage.MaxBytes()) + " limit"

	r.Body = http.MaxBytesReader(w, r.Body, h.storage.MaxBytes()+multipartOverhead)
	file, header, err := r.FormFile(formField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.reject(w, limitMsg, err)
			return
		}
		h.reject(w, "No file was uploaded", err)
		return
	}
	defer file.Close()

	if header.Size > h.storage.MaxBytes() {
		h.reject(w, limitMsg, ErrTooLarge)
		return
	}

	stored, err := h.storage.Save(file)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnsupportedType):
		h.reject(w, "Invalid file type. Allowed: JPG, PNG, GIF, WEBP", err)
		return
	case errors.Is(err, ErrTooLarge):
		h.reject(w, limitMsg, err)
		return
	case errors.Is(err, ErrEmpty):
		h.reject(w, "No file was uploaded", err)
		return
	default:
		h.log.Error("upload save failed", slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncUpload("failed")
		}
		respond.Error(w, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}

	h.log.Info("image uploaded",
		slog.String("filename", stored.Filename),
		slog.String("content_type", stored.ContentType),
		slog.Int64("size", stored.Size))
	if h.metrics != nil {
		h.metrics.IncUpload("stored")
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"url":      stored.URL,
		"filename": stored.Filename,
	})
}

// Serve returns a handler for GET /uploads/* serving stored files.
// Directory listings are not exposed.
func (h *Handler) Serve() http.Handler {
	files := http.StripPrefix(strings.TrimSuffix(URLPrefix, "/"), http.FileServer(h.storage.FileSystem()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=60")
		files.ServeHTTP(w, r)
	})
}

func sizeLabel(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n >= 1<<10 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%dB", n)
}

func (h *Handler) reject(w http.ResponseWriter, msg string, err error) {
	h.log.Debug("upload rejected", slog.String("reason", msg), slog.String("error", err.Error()))
	if h.metrics != nil {
		h.metrics.IncUpload("rejected")
	}
	respond.Error(w, http.StatusBadRequest, msg)
}
