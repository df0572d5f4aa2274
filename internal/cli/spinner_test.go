package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Generating layout...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Generating layout...") {
		t.Errorf("output %q should contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line should be cleared on stop, got %q", out)
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Placing rooms...")
	s.Start()
	s.SetMessage("Routing corridors...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Routing corridors...") {
		t.Errorf("output %q should contain the new message", buf.String())
	}
}

func TestSpinnerShowsElapsed(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Solving")
	s.Start()
	time.Sleep(spinnerShowElapsed + 200*time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Solving 1s") {
		t.Errorf("output %q should show elapsed seconds", buf.String())
	}
}

func TestSpinnerContextEnds(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s, _ := quietSpinner(ctx, "Waiting")
			s.Start()
			time.Sleep(100 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
			select {
			case <-s.stopped:
			default:
				t.Error("spinner goroutine still running")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Stopping")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Never started")
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("unstarted spinner wrote %q", buf.String())
	}
	if s.elapsed() != "" {
		t.Errorf("elapsed() = %q, want empty", s.elapsed())
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Rendering")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Rendered")

	s, _ = quietSpinner(context.Background(), "Rendering")
	s.w = io.Discard
	s.Start()
	s.StopWithError("Render failed")
}
