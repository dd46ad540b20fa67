// Package control holds the signals shared between the input listener and
// the renderer, and the listener that drives them from key presses.
package control

import "sync/atomic"

// Flags are the three control signals. Each is an independent atomic; no
// operation needs more than one of them to be consistent.
type Flags struct {
	paused atomic.Bool
	quit   atomic.Bool
	reset  atomic.Bool

	pauseToggles  atomic.Int64
	resetRequests atomic.Int64
}

// NewFlags returns flags in the running state.
func NewFlags() *Flags {
	return &Flags{}
}

// TogglePause flips the paused flag. Only the listener writes it, so the
// load and store need not be one atomic step.
func (f *Flags) TogglePause() {
	f.paused.Store(!f.paused.Load())
	f.pauseToggles.Add(1)
}

// Paused reports whether rendering is paused.
func (f *Flags) Paused() bool {
	return f.paused.Load()
}

// RequestReset asks the renderer to zero its rotation on the next tick.
func (f *Flags) RequestReset() {
	f.reset.Store(true)
	f.resetRequests.Add(1)
}

// ConsumeReset reports whether a reset was requested and clears the request
// in the same atomic step, so a concurrent RequestReset is never lost.
func (f *Flags) ConsumeReset() bool {
	return f.reset.Swap(false)
}

// Quit signals every loop to stop. It never goes back to false.
func (f *Flags) Quit() {
	f.quit.Store(true)
}

// Quitting reports whether Quit has been called.
func (f *Flags) Quitting() bool {
	return f.quit.Load()
}

// PauseToggles returns how many times pause was toggled.
func (f *Flags) PauseToggles() int64 {
	return f.pauseToggles.Load()
}

// ResetRequests returns how many resets were requested.
func (f *Flags) ResetRequests() int64 {
	return f.resetRequests.Load()
}
