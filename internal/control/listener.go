package control

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-donut/internal/core"
)

// DefaultPollTimeout bounds each wait for a key so the listener notices an
// externally set quit flag without new input.
const DefaultPollTimeout = 100 * time.Millisecond

// KeySource yields key presses by name (" ", "r", "esc", "ctrl+c", ...).
// PollKey waits at most timeout; ok is false when no key arrived.
type KeySource interface {
	PollKey(timeout time.Duration) (key string, ok bool, err error)
}

// State is the listener's lifecycle state.
type State int32

const (
	StateListening State = iota
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateListening:
		return "Listening"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Listener turns key presses into flag changes. It never touches the frame
// buffer.
type Listener struct {
	flags       *Flags
	keys        KeySource
	keymap      *KeyMapper
	pollTimeout time.Duration
	logger      *log.Logger

	state    atomic.Int32
	done     chan struct{}
	stopOnce sync.Once
}

// NewListener creates a listener reading from keys. A non-positive
// pollTimeout falls back to DefaultPollTimeout; a nil logger uses the
// package default.
func NewListener(flags *Flags, keys KeySource, pollTimeout time.Duration, logger *log.Logger) *Listener {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Listener{
		flags:       flags,
		keys:        keys,
		keymap:      NewKeyMapper(),
		pollTimeout: pollTimeout,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

// Done is closed once the listener has stopped.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Run polls for keys until quit is requested by a key or observed on the
// flags. It is meant to run in its own goroutine.
func (l *Listener) Run() {
	defer l.stop()
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("input listener crashed", "panic", fmt.Sprint(r))
			l.flags.Quit()
		}
	}()

	for {
		if l.flags.Quitting() {
			return
		}

		key, ok, err := l.keys.PollKey(l.pollTimeout)
		if err != nil {
			// A failed poll is the same as no key this round.
			l.logger.Debug("key poll failed", "error", err)
			continue
		}
		if !ok {
			continue
		}

		if l.Handle(key) {
			return
		}
	}
}

// Handle applies one key press to the flags. It returns true when the key
// requested quit.
func (l *Listener) Handle(key string) bool {
	cmd := l.keymap.Map(key)
	switch cmd {
	case core.CommandTogglePause:
		l.flags.TogglePause()
		l.logger.Debug("pause toggled", "paused", l.flags.Paused())
	case core.CommandReset:
		l.flags.RequestReset()
		l.logger.Debug("reset requested")
	case core.CommandQuit:
		l.flags.Quit()
		l.logger.Debug("quit requested", "key", key)
		return true
	}
	return false
}

func (l *Listener) stop() {
	l.stopOnce.Do(func() {
		l.state.Store(int32(StateStopped))
		close(l.done)
	})
}
