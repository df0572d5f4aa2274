package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/observability"
)

// Runner encapsulates generation with caching.
// The CLI, the API server and the explorer all go through a Runner.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// GenerateWithCacheInfo returns the layout for opts, from the cache when
// possible, and whether it was a cache hit. Failed runs are not cached.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(opts.Hash())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if l, err := layout.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				r.Logger.Debug("layout cache hit", "id", l.ID)
				return l, true, nil
			}
			// undecodable entry, regenerate
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	res, err := Generate(ctx, opts)
	if err != nil {
		if res != nil {
			return res.Layout, false, err
		}
		return nil, false, err
	}
	l := res.Layout

	r.Logger.Info("generated layout",
		"id", l.ID,
		"rooms", len(l.Rooms),
		"links", len(l.Links),
		"duration", time.Since(start))

	if data, err := layout.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*layout.Layout, error) {
	l, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return l, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
