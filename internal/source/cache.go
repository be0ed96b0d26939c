package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/spf13/afero"

	"streamflux/internal/media"
)

// DefaultCacheLifetime is how long a cached list may stand in for the upstream.
const DefaultCacheLifetime = 24 * time.Hour

// GacheFs adapts an afero filesystem to gache.FileSystem.
type GacheFs struct {
	Fs afero.Fs
}

// OpenFile implements gache.FileSystem.
func (g GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return g.Fs.OpenFile(name, flag, perm)
}

// MkdirAll implements gache.FileSystem.
func (g GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return g.Fs.MkdirAll(path, perm)
}

// cacheData is the on-disk layout: one item list per cache key.
type cacheData struct {
	Lists map[string][]media.Item `json:"lists"`
}

// CacheConfig configures a CachedSource.
type CacheConfig struct {
	Fs       afero.Fs
	Path     string
	Key      string
	Lifetime time.Duration

	// OnFallback, when set, is called each time the cache answers for a
	// failed upstream.
	OnFallback func()
}

// CachedSource remembers the last list its upstream returned and serves it
// while the upstream is failing.
type CachedSource struct {
	upstream   Source
	cache      *gache.Cache[*cacheData]
	key        string
	onFallback func()
	log        *slog.Logger
	mu         sync.RWMutex
}

// NewCachedSource wraps upstream with a disk cache at cfg.Path on cfg.Fs.
func NewCachedSource(upstream Source, cfg CacheConfig, log *slog.Logger) *CachedSource {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = DefaultCacheLifetime
	}
	return &CachedSource{
		upstream: upstream,
		cache: gache.New[*cacheData](&gache.Options{
			Path:       cfg.Path,
			Lifetime:   cfg.Lifetime,
			FileSystem: GacheFs{Fs: cfg.Fs},
		}),
		key:        cfg.Key,
		onFallback: cfg.OnFallback,
		log:        log,
	}
}

// FetchAll implements Source. A successful upstream fetch refreshes the cache;
// a failed one is answered from the cache when it holds a live entry.
func (c *CachedSource) FetchAll(ctx context.Context) ([]media.Item, error) {
	items, err := c.upstream.FetchAll(ctx)
	if err == nil {
		if serr := c.store(items); serr != nil {
			c.log.Warn("media cache write failed", slog.String("error", serr.Error()))
		}
		return items, nil
	}
	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	cached, ok := c.Lookup().Get()
	if !ok {
		return nil, fmt.Errorf("%w: no cached copy: %w", ErrSourceUnavailable, err)
	}
	c.log.Info("serving cached media list",
		slog.String("key", c.key),
		slog.Int("items", len(cached)),
		slog.String("upstream_error", err.Error()))
	if c.onFallback != nil {
		c.onFallback()
	}
	return cached, nil
}

// Lookup returns the cached list, if any and not expired.
func (c *CachedSource) Lookup() mo.Option[[]media.Item] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.cache.Get()
	if err != nil || expired || data == nil {
		return mo.None[[]media.Item]()
	}
	items, ok := data.Lists[c.key]
	if !ok {
		return mo.None[[]media.Item]()
	}
	return mo.Some(items)
}

func (c *CachedSource) store(items []media.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.cache.Get()
	if err != nil || expired || data == nil {
		data = &cacheData{Lists: make(map[string][]media.Item)}
	}
	if data.Lists == nil {
		data.Lists = make(map[string][]media.Item)
	}
	data.Lists[c.key] = items
	return c.cache.Set(data)
}
