// Package render drives the frame loop: it owns the rotation state, fills
// the shared frame buffer each unpaused tick, paces the loop and hands every
// frame to a presenter.
package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-donut/internal/control"
	"github.com/vovakirdan/tui-donut/internal/core"
	"github.com/vovakirdan/tui-donut/internal/torus"
)

// ErrAborted is wrapped by Run when the frame loop died mid-frame.
var ErrAborted = errors.New("render: frame loop aborted")

// Presenter shows frames. Begin and End bracket a run (terminal setup and
// restore); their failures are logged and otherwise ignored.
type Presenter interface {
	Begin() error
	Present(frame core.Frame, status string) error
	End() error
}

// Stats summarizes one run.
type Stats struct {
	Presented int           // Frames handed to the presenter
	Computed  int           // Frames rasterized (not paused)
	Resets    int           // Reset requests consumed
	Duration  time.Duration // Wall time spent in Run
	LastFPS   int           // Most recent one-second FPS sample
}

// AvgFPS returns presented frames per second over the whole run.
func (s Stats) AvgFPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Presented) / s.Duration.Seconds()
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces the wall clock and sleep function.
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(r *Renderer) {
		r.now = now
		r.sleep = sleep
	}
}

// WithLogger sets the renderer's logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// Renderer owns the rotation angles and the frame loop.
type Renderer struct {
	buf       *core.FrameBuffer
	flags     *control.Flags
	presenter Presenter
	logger    *log.Logger

	now   func() time.Time
	sleep func(time.Duration)

	angleA, angleB float64

	// FPS sampling
	frames     int
	fps        int
	lastSample time.Time

	stats          Stats
	presentFailing bool
}

// New creates a renderer writing into buf and showing frames on p.
func New(buf *core.FrameBuffer, flags *control.Flags, p Presenter, opts ...Option) *Renderer {
	r := &Renderer{
		buf:       buf,
		flags:     flags,
		presenter: p,
		logger:    log.Default(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSample = r.now()
	return r
}

// Angles returns the current rotation angles.
func (r *Renderer) Angles() (a, b float64) {
	return r.angleA, r.angleB
}

// Stats returns the counters collected so far.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.LastFPS = r.fps
	return s
}

// Run renders frames until quit is set, pacing each iteration to target.
// A panic inside a frame is treated like a broken buffer: it sets quit for
// everyone, restores the presenter and is returned wrapped in ErrAborted.
func (r *Renderer) Run(target time.Duration, showStatus bool) (err error) {
	started := r.now()
	r.lastSample = started

	defer func() {
		if rec := recover(); rec != nil {
			r.flags.Quit()
			r.logger.Error("frame loop crashed", "panic", fmt.Sprint(rec))
			err = fmt.Errorf("%w: %v", ErrAborted, rec)
		}
		if endErr := r.presenter.End(); endErr != nil {
			r.logger.Warn("terminal restore failed", "error", endErr)
		}
		r.stats.Duration = r.now().Sub(started)
	}()

	if beginErr := r.presenter.Begin(); beginErr != nil {
		r.logger.Warn("terminal setup failed, continuing", "error", beginErr)
	}

	for !r.flags.Quitting() {
		start := r.now()

		r.Tick(showStatus)

		// Cap the frame rate; never sleep a negative duration.
		if wait := target - r.now().Sub(start); wait > 0 {
			r.sleep(wait)
		}
	}

	return nil
}

// Tick runs one iteration without pacing: consume a reset, compute a
// frame unless paused, present, and update the FPS sample.
func (r *Renderer) Tick(showStatus bool) {
	if r.flags.ConsumeReset() {
		r.angleA, r.angleB = 0, 0
		r.stats.Resets++
	}

	// One read so the status line matches what this tick did.
	paused := r.flags.Paused()
	if !paused {
		r.buf.Reset()
		torus.Rasterize(r.buf, r.angleA, r.angleB)
		r.angleA += torus.StepA
		r.angleB += torus.StepB
		r.stats.Computed++
	}

	status := ""
	if showStatus {
		status = StatusLine(paused, r.fps)
	}
	r.present(r.buf.Snapshot(), status)

	r.frames++
	if now := r.now(); now.Sub(r.lastSample) >= time.Second {
		r.fps = r.frames
		r.frames = 0
		r.lastSample = now
	}
}

func (r *Renderer) present(frame core.Frame, status string) {
	r.stats.Presented++
	if err := r.presenter.Present(frame, status); err != nil {
		// Log the first failure loudly, repeats quietly.
		if !r.presentFailing {
			r.logger.Warn("frame write failed", "error", err)
		} else {
			r.logger.Debug("frame write failed", "error", err)
		}
		r.presentFailing = true
		return
	}
	r.presentFailing = false
}

// StatusLine formats the line shown above the frame.
func StatusLine(paused bool, fps int) string {
	marker := "        "
	if paused {
		marker = "[PAUSED]"
	}
	return fmt.Sprintf("%s FPS: %d  (space pause/resume, r reset, q quit)", marker, fps)
}
