package config

import (
	_ "embed"
)

//go:embed defaults/donut.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration. It matches the
// embedded defaults/donut.yaml.
func Default() Config {
	return Config{
		Render: RenderConfig{
			FrameMS:         33,
			ShowStatus:      true,
			Color:           false,
			ShutdownGraceMS: 50,
		},
		Input: InputConfig{
			PollMS: 100,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "~/.donut/sessions.db",
		},
		SSH: SSHConfig{
			Address:        ":23235",
			IdleTimeoutMin: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
