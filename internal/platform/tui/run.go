// Package tui connects the donut core to terminals: local TTYs through
// golang.org/x/term, remote ones through a Wish SSH server, plus the Bubble
// Tea session history viewer.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-donut/internal/control"
	"github.com/vovakirdan/tui-donut/internal/core"
	"github.com/vovakirdan/tui-donut/internal/render"
	"github.com/vovakirdan/tui-donut/internal/storage"
)

// Result describes a finished session.
type Result struct {
	Render        render.Stats
	PauseToggles  int64
	ResetRequests int64
}

// Run spins the donut until the user quits or ctx is done.
// The input listener runs in its own goroutine; the render loop runs on
// the caller's goroutine. On the way out quit is forced on so the listener
// stops, and Run waits up to cfg.ShutdownGrace for it.
func Run(ctx context.Context, cfg core.RuntimeConfig, keys control.KeySource, p render.Presenter, logger *log.Logger) (Result, error) {
	if logger == nil {
		logger = log.Default()
	}

	buf := core.NewFrameBuffer()
	flags := control.NewFlags()

	listener := control.NewListener(flags, keys, cfg.PollTimeout, logger)
	go listener.Run()

	stop := context.AfterFunc(ctx, flags.Quit)
	defer stop()

	renderer := render.New(buf, flags, p, render.WithLogger(logger))
	err := renderer.Run(cfg.FrameDuration, cfg.ShowStatus)

	flags.Quit()
	select {
	case <-listener.Done():
	case <-time.After(cfg.ShutdownGrace):
		logger.Debug("input listener still polling at shutdown")
	}

	return Result{
		Render:        renderer.Stats(),
		PauseToggles:  flags.PauseToggles(),
		ResetRequests: flags.ResetRequests(),
	}, err
}

// Session converts the result into a history record for origin.
func (r Result) Session(origin string) storage.Session {
	return storage.Session{
		Origin:       origin,
		Presented:    r.Render.Presented,
		Computed:     r.Render.Computed,
		Resets:       r.Render.Resets,
		PauseToggles: int(r.PauseToggles),
		Duration:     r.Render.Duration,
		AvgFPS:       r.Render.AvgFPS(),
	}
}

// RecordSession saves the result to store. A nil store or a failed save
// only costs the history entry.
func RecordSession(store *storage.Store, origin string, res Result, logger *log.Logger) {
	if store == nil || res.Render.Presented == 0 {
		return
	}
	if _, err := store.SaveSession(res.Session(origin)); err != nil {
		logger.Warn("could not record session", "origin", origin, "error", err)
	}
}
