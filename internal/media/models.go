package media

import (
	"errors"
	"strings"
	"time"
)

// Category groups media items into showcase rows.
type Category string

const (
	CategoryFootball Category = "football"
	CategorySports   Category = "sports"
	CategoryMovies   Category = "movies"
	CategorySeries   Category = "series"
)

// Categories lists every valid category in showcase order.
var Categories = []Category{CategoryFootball, CategorySports, CategoryMovies, CategorySeries}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFootball, CategorySports, CategoryMovies, CategorySeries:
		return true
	}
	return false
}

// ParseCategory normalises s and returns ok=false for unknown values.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Item is a single piece of content (film, show, channel or match) with
// display metadata. JSON names follow the front-end contract.
type Item struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ThumbnailURL  string   `json:"thumbnail"`
	Category      Category `json:"category"`
	Description   string   `json:"description,omitempty"`
	Year          string   `json:"year,omitempty"`
	Rating        string   `json:"rating,omitempty"`
	DurationLabel string   `json:"duration,omitempty"`
	SeasonNumber  int      `json:"season,omitempty"`
	EpisodeCount  int      `json:"episode,omitempty"`
	LeagueName    string   `json:"league,omitempty"`
	MatchDate     string   `json:"matchDate,omitempty"`
	TeamsLabel    string   `json:"teams,omitempty"`
	ChannelName   string   `json:"channelName,omitempty"`
	IsLive        bool     `json:"isLive"`

	CreatedAt time.Time `json:"createdAt"`
}

var (
	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("media item not found")

	// ErrInvalidItem is returned when a new item lacks a title or category.
	ErrInvalidItem = errors.New("title and category are required")

	// ErrInvalidCategory is returned for a category outside the known set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrEmptyPatch is returned when an update carries no recognised fields.
	ErrEmptyPatch = errors.New("no valid fields to update")
)

// Validate checks the fields required to store an item.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Title) == "" || it.Category == "" {
		return ErrInvalidItem
	}
	if !it.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Title         *string   `json:"title"`
	ThumbnailURL  *string   `json:"thumbnail"`
	Category      *Category `json:"category"`
	Description   *string   `json:"description"`
	Year          *string   `json:"year"`
	Rating        *string   `json:"rating"`
	DurationLabel *string   `json:"duration"`
	SeasonNumber  *int      `json:"season"`
	EpisodeCount  *int      `json:"episode"`
	LeagueName    *string   `json:"league"`
	MatchDate     *string   `json:"matchDate"`
	TeamsLabel    *string   `json:"teams"`
	ChannelName   *string   `json:"channelName"`
	IsLive        *bool     `json:"isLive"`
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply returns a copy of it with the patch applied.
func (p Patch) Apply(it Item) (Item, error) {
	if p.Category != nil && !p.Category.Valid() {
		return it, ErrInvalidCategory
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return it, ErrInvalidItem
	}
	set(&it.Title, p.Title)
	set(&it.ThumbnailURL, p.ThumbnailURL)
	set(&it.Category, p.Category)
	set(&it.Description, p.Description)
	set(&it.Year, p.Year)
	set(&it.Rating, p.Rating)
	set(&it.DurationLabel, p.DurationLabel)
	set(&it.SeasonNumber, p.SeasonNumber)
	set(&it.EpisodeCount, p.EpisodeCount)
	set(&it.LeagueName, p.LeagueName)
	set(&it.MatchDate, p.MatchDate)
	set(&it.TeamsLabel, p.TeamsLabel)
	set(&it.ChannelName, p.ChannelName)
	set(&it.IsLive, p.IsLive)
	return it, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
