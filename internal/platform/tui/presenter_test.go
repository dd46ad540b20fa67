package tui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-donut/internal/core"
	"github.com/vovakirdan/tui-donut/internal/render"
	"github.com/vovakirdan/tui-donut/internal/torus"
)

func TestPresenterBeginEnd(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPresenter(&out, PresenterConfig{RawFD: NoRawMode})

	if err := p.Begin(); err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	if !strings.Contains(out.String(), seqClearScreen) || !strings.Contains(out.String(), seqHideCursor) {
		t.Errorf("Begin() output %q should clear the screen and hide the cursor", out.String())
	}

	out.Reset()
	if err := p.End(); err != nil {
		t.Fatalf("End() failed: %v", err)
	}
	if out.String() != seqShowCursor {
		t.Errorf("End() output = %q, expected show cursor", out.String())
	}
}

func TestPresenterSkipsRawModeForNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "not-a-tty"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	defer f.Close()

	var out bytes.Buffer
	p := NewTerminalPresenter(&out, PresenterConfig{RawFD: int(f.Fd())})
	if err := p.Begin(); err != nil {
		t.Errorf("Begin() on a regular file should not fail: %v", err)
	}
	if p.oldState != nil {
		t.Error("raw mode must not be entered on a non-terminal")
	}
	if err := p.End(); err != nil {
		t.Errorf("End() failed: %v", err)
	}
}

func TestPresenterPresentLayout(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPresenter(&out, PresenterConfig{RawFD: NoRawMode})
	frame := torus.Render(0, 0)

	if err := p.Present(frame, render.StatusLine(true, 30)); err != nil {
		t.Fatalf("Present() failed: %v", err)
	}

	written := out.String()
	if !strings.HasPrefix(written, seqHome) {
		t.Fatal("frame should start by homing the cursor")
	}

	lines := strings.Split(strings.TrimPrefix(written, seqHome), "\r\n")
	// status + rows + trailing empty split
	if len(lines) != core.ScreenH+2 {
		t.Fatalf("got %d lines, expected %d", len(lines), core.ScreenH+2)
	}
	if !strings.Contains(lines[0], "[PAUSED] FPS: 30") {
		t.Errorf("status line = %q", lines[0])
	}
	for y := 0; y < core.ScreenH; y++ {
		if lines[y+1] != frame.Row(y) {
			t.Errorf("row %d = %q, expected %q", y, lines[y+1], frame.Row(y))
		}
	}
}

func TestPresenterWithoutStatus(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPresenter(&out, PresenterConfig{RawFD: NoRawMode})
	frame := core.BlankFrame()

	if err := p.Present(frame, ""); err != nil {
		t.Fatalf("Present() failed: %v", err)
	}
	lines := strings.Split(strings.TrimPrefix(out.String(), seqHome), "\r\n")
	if len(lines) != core.ScreenH+1 {
		t.Fatalf("got %d lines, expected %d", len(lines), core.ScreenH+1)
	}
	if lines[0] != strings.Repeat(" ", core.ScreenW) {
		t.Errorf("first line = %q, expected a blank row", lines[0])
	}
}

func TestPresenterColorTint(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPresenter(&out, PresenterConfig{RawFD: NoRawMode, Color: true})
	frame := torus.Render(0, 0)

	if err := p.Present(frame, ""); err != nil {
		t.Fatalf("Present() failed: %v", err)
	}
	written := out.String()
	if !strings.Contains(written, "\x1b[38;5;") {
		t.Error("color mode should emit 256-color foreground sequences")
	}

	// Stripping the color sequences gives back the plain frame
	plain := stripSGR(strings.TrimPrefix(written, seqHome))
	lines := strings.Split(plain, "\r\n")
	for y := 0; y < core.ScreenH; y++ {
		if lines[y] != frame.Row(y) {
			t.Fatalf("row %d = %q, expected %q", y, lines[y], frame.Row(y))
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("terminal gone")
}

func TestPresenterReportsWriteErrors(t *testing.T) {
	p := NewTerminalPresenter(failingWriter{}, PresenterConfig{RawFD: NoRawMode})

	if err := p.Begin(); err == nil {
		t.Error("Begin() should report the write failure")
	}
	if err := p.Present(core.BlankFrame(), "status"); err == nil {
		t.Error("Present() should report the write failure")
	}
	if err := p.End(); err == nil {
		t.Error("End() should report the write failure")
	}
}

// stripSGR removes "ESC [ ... m" sequences.
func stripSGR(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
