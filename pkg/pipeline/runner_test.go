package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
)

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner should fill defaults: %+v", r)
	}
}

func TestRunnerGenerateCacheHit(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	opts := Options{Seed: 21}

	first, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first run should miss")
	}

	second, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second run should hit")
	}

	a, _ := layout.Marshal(first)
	b, _ := layout.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Error("cached layout differs from generated layout")
	}

	opts.Refresh = true
	if _, hit, err := r.GenerateWithCacheInfo(ctx, opts); err != nil || hit {
		t.Errorf("refresh: hit %v, err %v", hit, err)
	}
}

func TestRunnerGenerateFailureNotCached(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	opts := Options{Anchors: []layout.Point{{X: 1, Y: 1}}}

	for i := 0; i < 2; i++ {
		_, hit, err := r.GenerateWithCacheInfo(ctx, opts)
		if !errors.Is(err, errors.ErrCodeInsufficientPoints) {
			t.Fatalf("error = %v, want INSUFFICIENT_POINTS", err)
		}
		if hit {
			t.Error("failed run should not be cached")
		}
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	res, err := Generate(ctx, Options{Seed: 8})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(ctx, res.Layout, RenderOptions{
		Formats: []string{FormatJSON, FormatDOT, FormatASCII, FormatSVG},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := layout.Unmarshal(artifacts[FormatJSON]); err != nil {
		t.Errorf("json artifact does not decode: %v", err)
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "graph G {") {
		t.Error("dot artifact should be an undirected graph")
	}
	if got := string(artifacts[FormatASCII]); got != layout.ASCII(res.Layout) {
		t.Error("ascii artifact differs from layout.ASCII")
	}
	if !bytes.Contains(artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact should contain an svg element")
	}
}

func TestRenderDefaultsToJSON(t *testing.T) {
	res, err := Generate(context.Background(), Options{Seed: 8})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(context.Background(), res.Layout, RenderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != 1 || artifacts[FormatJSON] == nil {
		t.Errorf("artifacts = %v, want json only", artifacts)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	_, err := Render(context.Background(), &layout.Layout{}, RenderOptions{Formats: []string{"png"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerRenderCacheHit(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	l, err := r.Generate(ctx, Options{Seed: 8})
	if err != nil {
		t.Fatal(err)
	}

	opts := RenderOptions{Formats: []string{FormatASCII, FormatDOT}}
	first, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil || hit {
		t.Fatalf("first render: hit %v, err %v", hit, err)
	}
	second, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil || !hit {
		t.Fatalf("second render: hit %v, err %v", hit, err)
	}
	for _, f := range opts.Formats {
		if !bytes.Equal(first[f], second[f]) {
			t.Errorf("%s artifact changed between renders", f)
		}
	}

	// A new format renders only what is missing.
	opts.Formats = append(opts.Formats, FormatJSON)
	third, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil || hit {
		t.Fatalf("third render: hit %v, err %v", hit, err)
	}
	if len(third) != 3 {
		t.Errorf("artifacts = %d, want 3", len(third))
	}
}
