package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
	"github.com/matzehuels/ascent/pkg/observability"
)

// RenderOptions selects the artifacts produced by [Runner.Render].
type RenderOptions struct {
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // DOT/SVG: label rooms with size and category
	Scale    float64  `json:"scale,omitempty"`    // DOT/SVG: points per grid cell, default 1
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, ValidFormats...); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults renders JSON when no format is given.
func (o *RenderOptions) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
}

func (o *RenderOptions) keyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format == FormatDOT || format == FormatSVG {
		k.Detailed = o.Detailed
		k.Scale = o.Scale
	}
	return k
}

// Render produces artifacts for a layout without caching.
func Render(ctx context.Context, l *layout.Layout, opts RenderOptions) (map[string][]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	dotOpts := layout.DOTOptions{Detailed: opts.Detailed, Scale: opts.Scale}

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = layout.Marshal(l)
		case FormatDOT:
			data = []byte(layout.ToDOT(l, dotOpts))
		case FormatSVG:
			data, err = layout.RenderSVG(ctx, layout.ToDOT(l, dotOpts))
		case FormatASCII:
			data = []byte(layout.ASCII(l))
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderWithCacheInfo produces artifacts, reusing cached ones, and reports
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *layout.Layout, opts RenderOptions) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(l.ID, opts.keyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, l, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(l.ID, opts.keyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *layout.Layout, opts RenderOptions) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}
