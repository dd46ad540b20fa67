package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-donut/internal/core"
	"github.com/vovakirdan/tui-donut/internal/torus"
)

// ANSI control sequences used by the presenter.
const (
	seqClearScreen = "\x1b[2J"
	seqHome        = "\x1b[H"
	seqClearLine   = "\x1b[K"
	seqHideCursor  = "\x1b[?25l"
	seqShowCursor  = "\x1b[?25h"
)

// NoRawMode disables raw mode handling in PresenterConfig.
const NoRawMode = -1

// PresenterConfig configures a TerminalPresenter.
type PresenterConfig struct {
	// RawFD is the terminal put into raw mode between Begin and End
	// (normally stdin). NoRawMode skips it, e.g. for SSH sessions where the
	// client owns the PTY.
	RawFD int

	// Color tints each glyph by its brightness level.
	Color bool
}

// TerminalPresenter writes frames to a terminal with ANSI sequences.
// All writes are best-effort; errors are returned for logging only.
type TerminalPresenter struct {
	out      io.Writer
	cfg      PresenterConfig
	oldState *term.State

	statusStyle lipgloss.Style
	pausedStyle lipgloss.Style
	shadeStyles [len(torus.Ramp)]lipgloss.Style
	shadeIndex  [256]int8

	sb strings.Builder
}

// NewTerminalPresenter creates a presenter writing to out.
func NewTerminalPresenter(out io.Writer, cfg PresenterConfig) *TerminalPresenter {
	renderer := lipgloss.NewRenderer(out)
	if cfg.Color {
		// SSH channels and pipes are not detected as color terminals.
		renderer.SetColorProfile(termenv.ANSI256)
	}

	p := &TerminalPresenter{
		out:         out,
		cfg:         cfg,
		statusStyle: renderer.NewStyle().Foreground(lipgloss.Color("245")),
		pausedStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
	}

	// Grayscale ramp from dim to bright: 244..255
	for i := range p.shadeIndex {
		p.shadeIndex[i] = -1
	}
	for i := 0; i < len(torus.Ramp); i++ {
		p.shadeStyles[i] = renderer.NewStyle().Foreground(lipgloss.Color(fmt.Sprint(244 + i)))
		p.shadeIndex[torus.Ramp[i]] = int8(i)
	}

	return p
}

// Begin enters raw mode when configured, clears the screen and hides the
// cursor. Raw mode failure is reported but the screen is still prepared.
func (p *TerminalPresenter) Begin() error {
	var errs []error

	if p.cfg.RawFD != NoRawMode && term.IsTerminal(p.cfg.RawFD) {
		state, err := term.MakeRaw(p.cfg.RawFD)
		if err != nil {
			errs = append(errs, fmt.Errorf("tui: cannot enter raw mode: %w", err))
		} else {
			p.oldState = state
		}
	}

	if _, err := io.WriteString(p.out, seqClearScreen+seqHome+seqHideCursor); err != nil {
		errs = append(errs, fmt.Errorf("tui: cannot prepare screen: %w", err))
	}

	return errors.Join(errs...)
}

// Present homes the cursor and draws the optional status line followed by
// the frame rows.
func (p *TerminalPresenter) Present(frame core.Frame, status string) error {
	p.sb.Reset()
	p.sb.WriteString(seqHome)

	if status != "" {
		p.sb.WriteString(p.renderStatus(status))
		p.sb.WriteString(seqClearLine + "\r\n")
	}

	for y := 0; y < core.ScreenH; y++ {
		if p.cfg.Color {
			p.writeTintedRow(&frame, y)
		} else {
			p.sb.WriteString(frame.Row(y))
		}
		p.sb.WriteString("\r\n")
	}

	if _, err := io.WriteString(p.out, p.sb.String()); err != nil {
		return fmt.Errorf("tui: cannot write frame: %w", err)
	}
	return nil
}

// End shows the cursor again and restores the terminal mode.
func (p *TerminalPresenter) End() error {
	var errs []error

	if _, err := io.WriteString(p.out, seqShowCursor); err != nil {
		errs = append(errs, fmt.Errorf("tui: cannot show cursor: %w", err))
	}

	if p.oldState != nil {
		if err := term.Restore(p.cfg.RawFD, p.oldState); err != nil {
			errs = append(errs, fmt.Errorf("tui: cannot restore terminal: %w", err))
		}
		p.oldState = nil
	}

	return errors.Join(errs...)
}

// renderStatus highlights the pause marker and dims the rest.
func (p *TerminalPresenter) renderStatus(status string) string {
	const marker = "[PAUSED]"
	if rest, ok := strings.CutPrefix(status, marker); ok {
		return p.pausedStyle.Render(marker) + p.statusStyle.Render(rest)
	}
	return p.statusStyle.Render(status)
}

// writeTintedRow groups consecutive glyphs of the same brightness so each
// run costs one pair of escape sequences.
func (p *TerminalPresenter) writeTintedRow(frame *core.Frame, y int) {
	x := 0
	for x < core.ScreenW {
		level := p.shadeIndex[frame.At(x, y)]

		var run strings.Builder
		for x < core.ScreenW && p.shadeIndex[frame.At(x, y)] == level {
			run.WriteByte(frame.At(x, y))
			x++
		}

		if level < 0 {
			// Blanks and unknown glyphs stay unstyled
			p.sb.WriteString(run.String())
			continue
		}
		p.sb.WriteString(p.shadeStyles[level].Render(run.String()))
	}
}
