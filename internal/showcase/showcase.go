// Package showcase assembles the landing page content rows, one carousel per
// media category.
package showcase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"streamflux/internal/carousel"
	"streamflux/internal/media"
	"streamflux/internal/source"
)

// ErrUnknownRow is returned for a category with no row.
var ErrUnknownRow = errors.New("unknown showcase row")

// Orientation is the card shape of a row.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// portraitRatio scales the configured item width down for poster cards.
const portraitRatio = 0.6

// RowSpec describes one row of the showcase.
type RowSpec struct {
	Title       string
	Category    media.Category
	Orientation Orientation
}

// Rows lists the landing page rows in display order.
var Rows = []RowSpec{
	{Title: "Live Football Matches", Category: media.CategoryFootball, Orientation: Landscape},
	{Title: "Sports Channels", Category: media.CategorySports, Orientation: Landscape},
	{Title: "Popular Movies", Category: media.CategoryMovies, Orientation: Portrait},
	{Title: "Trending Series", Category: media.CategorySeries, Orientation: Portrait},
}

// Row is a rendered row: its items and the initial state of its carousel.
type Row struct {
	Title       string            `json:"title"`
	Category    media.Category    `json:"category"`
	Orientation Orientation       `json:"orientation"`
	Items       []media.Item      `json:"items"`
	Carousel    carousel.Snapshot `json:"carousel"`
}

// Showcase builds rows from a media source.
type Showcase struct {
	src source.Source
	cfg carousel.Config
	log *slog.Logger
}

// New returns a Showcase reading from src. cfg is the base carousel
// configuration; portrait rows use a narrower item width.
func New(src source.Source, cfg carousel.Config, log *slog.Logger) *Showcase {
	return &Showcase{src: src, cfg: cfg, log: log}
}

// Rows fetches the items once and returns every row. A failing source yields
// rows with no items.
func (s *Showcase) Rows(ctx context.Context) []Row {
	byCategory := lo.GroupBy(s.load(ctx), func(it media.Item) media.Category {
		return it.Category
	})
	return lo.Map(Rows, func(def RowSpec, _ int) Row {
		items := byCategory[def.Category]
		engine := carousel.New(s.configFor(def, carousel.PolicyTrack))
		engine.Initialize(items)
		return Row{
			Title:       def.Title,
			Category:    def.Category,
			Orientation: def.Orientation,
			Items:       items,
			Carousel:    engine.Snapshot(),
		}
	})
}

// Carousel returns the snapshot of one row's carousel under policy with
// item center brought to the middle. Any index is taken modulo the row
// length; None keeps the initial position.
func (s *Showcase) Carousel(ctx context.Context, category string, policy carousel.Policy, center mo.Option[int]) (carousel.Snapshot, error) {
	def, ok := lo.Find(Rows, func(r RowSpec) bool {
		return string(r.Category) == strings.ToLower(category)
	})
	if !ok {
		return carousel.Snapshot{}, ErrUnknownRow
	}
	items := lo.Filter(s.load(ctx), func(it media.Item, _ int) bool {
		return it.Category == def.Category
	})
	engine := carousel.New(s.configFor(def, policy))
	engine.Initialize(items)
	if c, ok := center.Get(); ok {
		engine.JumpTo(c)
	}
	return engine.Snapshot(), nil
}

func (s *Showcase) load(ctx context.Context) []media.Item {
	return lo.Map(source.LoadOrEmpty(ctx, s.src, s.log), func(it media.Item, _ int) media.Item {
		if strings.TrimSpace(it.ThumbnailURL) == "" {
			it.ThumbnailURL = media.PlaceholderThumbnail
		}
		return it
	})
}

func (s *Showcase) configFor(def RowSpec, policy carousel.Policy) carousel.Config {
	cfg := s.cfg
	cfg.Policy = policy
	if cfg.ItemWidth <= 0 {
		cfg.ItemWidth = carousel.DefaultItemWidth
	}
	if def.Orientation == Portrait {
		cfg.ItemWidth *= portraitRatio
	}
	return cfg
}
