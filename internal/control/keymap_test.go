package control

import (
	"testing"

	"github.com/vovakirdan/tui-donut/internal/core"
)

func TestKeyMapperMap(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key      string
		expected core.Command
	}{
		{" ", core.CommandTogglePause},
		{"r", core.CommandReset},
		{"R", core.CommandReset},
		{"q", core.CommandQuit},
		{"Q", core.CommandQuit},
		{"esc", core.CommandQuit},
		{"ctrl+c", core.CommandQuit},
		{"p", core.CommandNone},
		{"up", core.CommandNone},
		{"enter", core.CommandNone},
		{"", core.CommandNone},
	}

	for _, tc := range tests {
		if got := km.Map(tc.key); got != tc.expected {
			t.Errorf("Map(%q) = %v, expected %v", tc.key, got, tc.expected)
		}
	}
}
