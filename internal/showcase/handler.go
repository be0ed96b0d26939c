package showcase

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/mo"

	"streamflux/internal/carousel"
	"streamflux/internal/platform/respond"
)

// Handler serves the showcase rows.
type Handler struct {
	showcase *Showcase
	log      *slog.Logger
}

// NewHandler returns a Handler over s.
func NewHandler(s *Showcase, log *slog.Logger) *Handler {
	return &Handler{showcase: s, log: log}
}

// Routes mounts the handler under a router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{category}/carousel", h.Carousel)
}

// List handles GET /showcase.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=60")
	respond.JSON(w, http.StatusOK, map[string]any{"rows": h.showcase.Rows(r.Context())})
}

// Carousel handles GET /showcase/{category}/carousel?policy=centered&center=2.
func (h *Handler) Carousel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	policy := carousel.PolicyCentered
	if q.Get("policy") != "" {
		policy = carousel.ParsePolicy(q.Get("policy"))
	}
	center := mo.None[int]()
	if v := q.Get("center"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "center must be an integer")
			return
		}
		center = mo.Some(n)
	}

	snap, err := h.showcase.Carousel(r.Context(), chi.URLParam(r, "category"), policy, center)
	if errors.Is(err, ErrUnknownRow) {
		respond.Error(w, http.StatusNotFound, "Invalid category. Allowed: football, sports, movies, series")
		return
	}
	if err != nil {
		h.log.Error("showcase carousel failed", slog.String("error", err.Error()))
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, snap)
}
