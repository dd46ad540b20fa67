package control

import "github.com/vovakirdan/tui-donut/internal/core"

// KeyMapper translates key names to commands.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// Map translates a key name to a command. Unknown keys map to CommandNone.
func (km *KeyMapper) Map(key string) core.Command {
	switch key {
	case " ":
		return core.CommandTogglePause
	case "r", "R":
		return core.CommandReset
	case "q", "Q", "esc", "ctrl+c":
		return core.CommandQuit
	}

	return core.CommandNone
}
