package core

// Command is a discrete control request raised by the input side.
// Key sources speak in key names; the listener translates those into
// commands so the renderer never sees physical keys.
type Command int

const (
	CommandNone        Command = iota
	CommandTogglePause         // Space
	CommandReset               // r, R
	CommandQuit                // q, Q, Esc, Ctrl+C
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "None"
	case CommandTogglePause:
		return "TogglePause"
	case CommandReset:
		return "Reset"
	case CommandQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
