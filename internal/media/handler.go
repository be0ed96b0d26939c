package media

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"streamflux/internal/platform/metrics"
	"streamflux/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the media CRUD endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes mounts the endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// List handles GET /media[?category=football].
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.List(r.URL.Query().Get("category")))
}

// Get handles GET /media/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, it)
}

// Create handles POST /media.
// Body: { "title": "...", "category": "movies", ... }.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var it Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		h.log.Debug("invalid media body", slog.String("error", err.Error()))
		respond.Error(w, http.StatusBadRequest, "Title and category are required")
		return
	}

	created, err := h.svc.Create(it)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Info("media created",
		slog.String("id", created.ID),
		slog.String("category", string(created.Category)))
	if h.metrics != nil {
		h.metrics.IncMediaOp("create")
	}
	respond.JSON(w, http.StatusCreated, created)
}

// Update handles PUT /media/{id} with a partial body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.log.Debug("invalid patch body", slog.String("id", id), slog.String("error", err.Error()))
		respond.Error(w, http.StatusBadRequest, "No data provided")
		return
	}

	updated, err := h.svc.Update(id, p)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Info("media updated", slog.String("id", id))
	if h.metrics != nil {
		h.metrics.IncMediaOp("update")
	}
	respond.JSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /media/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Info("media deleted", slog.String("id", id))
	if h.metrics != nil {
		h.metrics.IncMediaOp("delete")
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Media item deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Media item not found")
	case errors.Is(err, ErrInvalidItem):
		respond.Error(w, http.StatusBadRequest, "Title and category are required")
	case errors.Is(err, ErrInvalidCategory):
		respond.Error(w, http.StatusBadRequest, "Invalid category. Allowed: football, sports, movies, series")
	case errors.Is(err, ErrEmptyPatch):
		respond.Error(w, http.StatusBadRequest, "No valid fields to update")
	default:
		h.log.Error("media operation failed", slog.String("error", err.Error()))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
