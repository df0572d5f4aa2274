package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond

	// Runs shorter than this do not show a timer.
	spinnerShowElapsed = time.Second
)

// Spinner animates a status line on stderr while a long step runs. After a
// second the elapsed time is appended. It stops when its context ends.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started time.Time

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       os.Stderr,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start draws frames until Stop is called or the context ends.
func (s *Spinner) Start() {
	s.started = time.Now()
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := s.message
	if elapsed := time.Since(s.started); elapsed >= spinnerShowElapsed {
		text += fmt.Sprintf(" %ds", int(elapsed.Seconds()))
	}
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(text)
	s.width = max(s.width, len(text)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It may be called more than
// once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.started.IsZero() {
			close(s.stopped)
		}
		s.cancel()
		<-s.stopped
	})
}

// StopWithSuccess stops and prints message with the elapsed time.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s %s", message, StyleDim.Render(s.elapsed()))
}

// StopWithError stops and prints message as an error.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context has ended, either through
// Stop or through the parent context.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) elapsed() string {
	if s.started.IsZero() {
		return ""
	}
	return "(" + time.Since(s.started).Round(time.Millisecond).String() + ")"
}
