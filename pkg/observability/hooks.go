// Package observability lets the generator report what it is doing without
// depending on a metrics or logging backend.
//
// Stages, caches and the HTTP API call the hooks returned by [Pipeline],
// [Cache] and [HTTP]. They are no-ops until a program installs real ones:
//
//	restore := observability.Install(observability.Hooks{
//	    Pipeline: observability.NewLogHooks(logger),
//	    Cache:    observability.NewLogHooks(logger),
//	})
//	defer restore()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives generation events. Stage names are the ones used in
// spans: place, triangulate, link, solve, pack, route.
type PipelineHooks interface {
	OnGenerateStart(ctx context.Context, seed uint64, anchors int)
	OnGenerateComplete(ctx context.Context, rooms int, duration time.Duration, err error)
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// CacheHooks receives cache events. keyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives one pair of events per API request. route is the chi
// pattern, e.g. "/layouts/{id}".
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every event. Embed it to implement only some
// methods.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, uint64, int)                  {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// Hooks is the set of installed hooks. Nil fields mean no-op.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func (h Hooks) withDefaults() *Hooks {
	if h.Pipeline == nil {
		h.Pipeline = NoopPipelineHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return &h
}

var current atomic.Pointer[Hooks]

func init() {
	current.Store(Hooks{}.withDefaults())
}

// Install replaces all hooks at once and returns a function restoring the
// previous set. Components read the hooks when an operation starts, so an
// operation in flight keeps the hooks it began with.
func Install(h Hooks) (restore func()) {
	prev := current.Swap(h.withDefaults())
	return func() { current.Store(prev) }
}

// Installed returns the current hook set.
func Installed() Hooks {
	return *current.Load()
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }
