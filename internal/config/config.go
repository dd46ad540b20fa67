// Package config provides YAML-based configuration loading for the donut.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-donut/internal/core"
)

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("config: invalid value")

// Config contains all configuration for the donut.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Input   InputConfig   `yaml:"input"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// RenderConfig defines frame pacing and presentation.
type RenderConfig struct {
	FrameMS         int  `yaml:"frame_ms"`
	ShowStatus      bool `yaml:"show_status"`
	Color           bool `yaml:"color"`
	ShutdownGraceMS int  `yaml:"shutdown_grace_ms"`
}

// InputConfig defines key polling.
type InputConfig struct {
	PollMS int `yaml:"poll_ms"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Empty means stderr
}

// StorageConfig defines session history persistence.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SSHConfig defines the remote viewing server.
type SSHConfig struct {
	Address        string `yaml:"address"`
	HostKey        string `yaml:"host_key"`
	IdleTimeoutMin int    `yaml:"idle_timeout_min"`
}

// Validate rejects values the renderer cannot run with.
func (c Config) Validate() error {
	if c.Render.FrameMS <= 0 {
		return fmt.Errorf("%w: render.frame_ms must be positive, got %d", ErrInvalid, c.Render.FrameMS)
	}
	if c.Render.ShutdownGraceMS < 0 {
		return fmt.Errorf("%w: render.shutdown_grace_ms must not be negative, got %d", ErrInvalid, c.Render.ShutdownGraceMS)
	}
	if c.Input.PollMS <= 0 {
		return fmt.Errorf("%w: input.poll_ms must be positive, got %d", ErrInvalid, c.Input.PollMS)
	}
	if c.SSH.IdleTimeoutMin < 0 {
		return fmt.Errorf("%w: ssh.idle_timeout_min must not be negative, got %d", ErrInvalid, c.SSH.IdleTimeoutMin)
	}
	return nil
}

// Runtime converts the render and input sections into a RuntimeConfig.
func (c Config) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		FrameDuration: time.Duration(c.Render.FrameMS) * time.Millisecond,
		PollTimeout:   time.Duration(c.Input.PollMS) * time.Millisecond,
		ShutdownGrace: time.Duration(c.Render.ShutdownGraceMS) * time.Millisecond,
		ShowStatus:    c.Render.ShowStatus,
		Color:         c.Render.Color,
	}
}

// IdleTimeout returns the SSH idle timeout as a duration.
func (c SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMin) * time.Minute
}
