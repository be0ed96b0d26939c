package media

import (
	"fmt"
	"log/slog"
	"strings"
)

// uploadsMarker identifies thumbnails that point at files this service stored.
const uploadsMarker = "uploads/"

// ThumbnailRemover deletes a locally stored thumbnail given its public URL.
type ThumbnailRemover interface {
	RemoveURL(url string) error
}

// Service applies the media rules (category filtering, partial updates,
// thumbnail cleanup) and delegates storage to Repository.
type Service struct {
	repo   Repository
	thumbs ThumbnailRemover
	log    *slog.Logger
}

// NewService returns a Service over repo. thumbs may be nil, in which case
// deleting an item never touches stored files.
func NewService(repo Repository, thumbs ThumbnailRemover, log *slog.Logger) *Service {
	return &Service{repo: repo, thumbs: thumbs, log: log}
}

// List returns items newest first. An unknown or empty category is ignored
// and every item is returned.
func (s *Service) List(category string) []Item {
	c, ok := ParseCategory(category)
	if !ok {
		c = ""
	}
	return s.repo.List(c)
}

// Get returns a single item.
func (s *Service) Get(id string) (Item, error) {
	return s.repo.Get(id)
}

// Create stores a new item.
func (s *Service) Create(it Item) (Item, error) {
	it.Category = Category(strings.ToLower(string(it.Category)))
	return s.repo.Create(it)
}

// Update applies a partial update.
func (s *Service) Update(id string, p Patch) (Item, error) {
	if p.Category != nil {
		c := Category(strings.ToLower(string(*p.Category)))
		p.Category = &c
	}
	return s.repo.Update(id, p)
}

// Delete removes the item and, when its thumbnail was uploaded here, the
// stored file. A failed file removal is logged and does not fail the delete.
func (s *Service) Delete(id string) (Item, error) {
	it, err := s.repo.Delete(id)
	if err != nil {
		return Item{}, err
	}
	if s.thumbs != nil && strings.Contains(it.ThumbnailURL, uploadsMarker) {
		if err := s.thumbs.RemoveURL(it.ThumbnailURL); err != nil {
			s.log.Warn("thumbnail cleanup failed",
				slog.String("id", id),
				slog.String("thumbnail", it.ThumbnailURL),
				slog.String("error", err.Error()))
		}
	}
	return it, nil
}

// Count returns the number of stored items.
func (s *Service) Count() int {
	return s.repo.Count()
}

// Seed stores items when the repository is empty. It returns how many were added.
func (s *Service) Seed(items []Item) (int, error) {
	if s.repo.Count() > 0 {
		return 0, nil
	}
	// Oldest first so the newest-first listing matches the given order.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		it.ID = ""
		if _, err := s.repo.Create(it); err != nil {
			return len(items) - 1 - i, fmt.Errorf("seed %q: %w", it.Title, err)
		}
	}
	return len(items), nil
}
