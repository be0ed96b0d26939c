// Package source supplies carousels with media items from wherever they live:
// the built-in demo catalogue, the local repository, a remote media API, or a
// disk cache in front of any of them.
package source

import (
	"context"
	"errors"
	"log/slog"

	"streamflux/internal/media"
)

// ErrSourceUnavailable is returned when items cannot be fetched.
var ErrSourceUnavailable = errors.New("media source unavailable")

// Source fetches the full, ordered item list.
type Source interface {
	FetchAll(ctx context.Context) ([]media.Item, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context) ([]media.Item, error)

// FetchAll implements Source.
func (f Func) FetchAll(ctx context.Context) ([]media.Item, error) {
	return f(ctx)
}

// Static always returns the same items.
type Static []media.Item

// Demo returns a Static source over the demo catalogue.
func Demo() Static {
	return Static(media.DemoCatalogue())
}

// FetchAll implements Source.
func (s Static) FetchAll(ctx context.Context) ([]media.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]media.Item(nil), s...), nil
}

// Lister is the read side of the media service.
type Lister interface {
	List(category string) []media.Item
}

// RepositorySource reads from the local media service, optionally limited
// to one category.
type RepositorySource struct {
	lister   Lister
	category string
}

// NewRepositorySource returns a Source over l. An empty category means all.
func NewRepositorySource(l Lister, category string) *RepositorySource {
	return &RepositorySource{lister: l, category: category}
}

// FetchAll implements Source.
func (s *RepositorySource) FetchAll(ctx context.Context) ([]media.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.lister.List(s.category), nil
}

// LoadOrEmpty fetches from src and degrades to an empty list on failure,
// which leaves the consuming carousel uninitialized.
func LoadOrEmpty(ctx context.Context, src Source, log *slog.Logger) []media.Item {
	items, err := src.FetchAll(ctx)
	if err != nil {
		log.Warn("media source failed, rendering empty",
			slog.String("error", err.Error()))
		return nil
	}
	return items
}
