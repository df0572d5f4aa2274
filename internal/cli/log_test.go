package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("layout ready", "rooms", 24) }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("stage", "stage", "solve") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("stage", "stage", "solve") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Warn("rooms still overlap", "pairs", 2) }, true},
		{log.ErrorLevel, func(l *log.Logger) { l.Warn("rooms still overlap") }, false},
	}
	for i, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("case %d: wrote output = %v, want %v (%q)", i, got, tt.want, buf.String())
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("debug output missing after SetLogLevel: %q", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.DebugLevel))

	time.Sleep(5 * time.Millisecond)
	prog.step("loaded layout", "rooms", 12)
	prog.done("rendered artifacts", "count", 3)

	out := buf.String()
	for _, want := range []string{"loaded layout", "took=", "rooms=12", "rendered artifacts", "elapsed=", "count=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressStepsHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	prog.step("loaded layout")
	if buf.Len() != 0 {
		t.Errorf("step logged at info level: %q", buf.String())
	}
	prog.done("rendered artifacts")
	if !strings.Contains(buf.String(), "rendered artifacts") {
		t.Errorf("done missing: %q", buf.String())
	}
}
