package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level. The
// logger is used as is, so later level changes apply.
// Failed stages are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)

// NewLogHooks returns hooks logging to l, or to the default logger when l is
// nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnGenerateStart(_ context.Context, seed uint64, anchors int) {
	h.logger.Debug("generate", "seed", seed, "anchors", anchors)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, rooms int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("generate failed", "rooms", rooms, "took", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("generated", "rooms", rooms, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnStageStart(context.Context, string) {}

func (h *LogHooks) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("stage failed", "stage", stage, "took", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("stage", "stage", stage, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}
