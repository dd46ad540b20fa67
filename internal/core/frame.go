package core

import (
	"strings"
	"sync"
)

// Fixed frame geometry. The projection constants in the torus package are
// tuned for exactly this aspect ratio.
const (
	ScreenW = 80
	ScreenH = 22
	Cells   = ScreenW * ScreenH // 1760
)

// Blank is the glyph of a cell no surface point reached this frame.
const Blank byte = ' '

// Frame is a row-major copy of the glyph grid handed to presenters.
// It is a value type so it can be shown without holding the buffer lock.
type Frame [Cells]byte

// BlankFrame returns a frame with every cell blank.
func BlankFrame() Frame {
	var f Frame
	for i := range f {
		f[i] = Blank
	}
	return f
}

// At returns the glyph at (x, y), or Blank when out of bounds.
func (f *Frame) At(x, y int) byte {
	if x < 0 || x >= ScreenW || y < 0 || y >= ScreenH {
		return Blank
	}
	return f[y*ScreenW+x]
}

// Row returns row y as a string of ScreenW glyphs.
func (f *Frame) Row(y int) string {
	if y < 0 || y >= ScreenH {
		return strings.Repeat(" ", ScreenW)
	}
	return string(f[y*ScreenW : (y+1)*ScreenW])
}

// Blank reports whether no cell carries a glyph.
func (f *Frame) Blank() bool {
	for _, g := range f {
		if g != Blank {
			return false
		}
	}
	return true
}

// String joins the rows with newlines.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(Cells + ScreenH)

	for y := 0; y < ScreenH; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.Write(f[y*ScreenW : (y+1)*ScreenW])
	}
	return sb.String()
}

// FrameBuffer is the depth buffer and glyph buffer for one rendered frame.
// The renderer writes it and presenters read it; a depth entry and its glyph
// are only ever changed together under mu.
type FrameBuffer struct {
	mu    sync.Mutex
	depth [Cells]float64
	glyph [Cells]byte
}

// NewFrameBuffer allocates an empty buffer. It is never reallocated.
func NewFrameBuffer() *FrameBuffer {
	b := &FrameBuffer{}
	b.Reset()
	return b
}

// Reset clears every depth entry to 0 and every glyph to Blank.
// The whole clear happens in one critical section so a reader never sees a
// half-cleared buffer.
func (b *FrameBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.depth {
		b.depth[i] = 0
		b.glyph[i] = Blank
	}
}

// WriteCell stores depth and glyph at index i when depth is greater than
// the stored value (closer surface wins). Out-of-range indices are ignored.
// It returns whether the cell changed.
func (b *FrameBuffer) WriteCell(i int, depth float64, glyph byte) bool {
	if i < 0 || i >= Cells {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if depth <= b.depth[i] {
		return false
	}
	b.depth[i] = depth
	b.glyph[i] = glyph
	return true
}

// Snapshot copies the glyph grid for presentation.
func (b *FrameBuffer) Snapshot() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.glyph
}

// Depth returns the stored depth at index i, or 0 when out of range.
func (b *FrameBuffer) Depth(i int) float64 {
	if i < 0 || i >= Cells {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.depth[i]
}

// Cell returns the depth and glyph at index i as one consistent pair.
func (b *FrameBuffer) Cell(i int) (float64, byte) {
	if i < 0 || i >= Cells {
		return 0, Blank
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.depth[i], b.glyph[i]
}
