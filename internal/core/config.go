package core

import "time"

// RuntimeConfig contains the timing knobs shared by the renderer and the
// input listener for one session.
type RuntimeConfig struct {
	FrameDuration time.Duration // Target duration of one frame tick
	PollTimeout   time.Duration // Listener's bounded wait for a key
	ShutdownGrace time.Duration // How long shutdown waits for the listener
	ShowStatus    bool          // Prefix frames with the pause/FPS line
	Color         bool          // Tint glyphs by luminance
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		FrameDuration: 33 * time.Millisecond, // ~30 FPS
		PollTimeout:   100 * time.Millisecond,
		ShutdownGrace: 50 * time.Millisecond,
		ShowStatus:    true,
	}
}
