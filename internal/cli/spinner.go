package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the animation cycle. Quarter-circle glyphs read well at the
// slow tick rate store round-trips call for.
var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerTick = 120 * time.Millisecond

// Spinner is a single-line progress indicator for store and render phases.
// The message can be swapped mid-flight as an operation moves between phases,
// and the elapsed time is shown so slow backends are visibly slow.
type Spinner struct {
	mu        sync.Mutex
	message   string
	lastWidth int

	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
	stop    sync.Once
}

// newSpinner creates a spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that clears itself when the context
// is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Start begins the animation on stderr.
func (s *Spinner) Start() {
	s.started = true
	startedAt := time.Now()
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)], time.Since(startedAt))
			}
		}
	}()
}

// SetMessage swaps the displayed message, keeping the spinner and elapsed
// time running across phases of one operation.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s %s %s",
		styleIconSpinner.Render(frame),
		StyleDim.Render(s.message),
		StyleDim.Render(elapsed.Round(time.Second/10).String()))
	if w := len(s.message) + 16; w > s.lastWidth {
		s.lastWidth = w
	}
	fmt.Fprint(os.Stderr, "\r"+line)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", s.lastWidth)+"\r")
}

// Stop halts the animation and clears the line. Safe to call repeatedly and
// before Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		if s.started {
			<-s.done
		}
		s.clearLine()
	})
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended, from the parent
// context or from Stop.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
