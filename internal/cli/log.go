package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a multi-step command. Steps are logged at debug level with
// their own duration; done logs the total at info level.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// step records that the named step finished.
func (p *progress) step(name string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"took", now.Sub(p.last).Round(time.Millisecond)}, keyvals...)
	p.logger.Debug(name, kv...)
	p.last = now
}

// done logs msg with the total elapsed time.
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}
