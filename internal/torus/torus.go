// Package torus rasterizes a rotating torus into a depth-tested glyph grid.
// The geometry is fixed: one implicit torus, one light, one camera.
package torus

import (
	"math"

	"github.com/vovakirdan/tui-donut/internal/core"
)

// Surface sampling steps. Finer steps give a denser surface at a roughly
// proportional cost.
const (
	ThetaStep = 0.07 // outer sweep, around the tube
	PhiStep   = 0.02 // inner sweep, around the torus axis
)

// Torus and projection constants, tuned for the 80×22 grid.
const (
	MinorRadius    = 1.0
	MajorRadius    = 2.0
	ViewerDistance = 5.0

	centerX = 40.0
	centerY = 12.0
	scaleX  = 30.0
	scaleY  = 15.0

	luminanceScale = 8.0
)

// Per-frame rotation increments applied by the renderer.
const (
	StepA = 0.04
	StepB = 0.02
)

// Ramp orders glyphs from dim to bright.
const Ramp = ".,-~:;=!*#$@"

// CellWriter receives depth-tested cell writes.
// core.FrameBuffer implements it.
type CellWriter interface {
	WriteCell(i int, depth float64, glyph byte) bool
}

// Shade maps a quantized luminance value onto Ramp.
// Negative values get the dimmest glyph; values past the end get the brightest.
func Shade(luminance int) byte {
	return Ramp[core.Clamp(luminance, 0, len(Ramp)-1)]
}

// Rasterize sweeps the torus surface for rotation angles a and b and
// writes every in-bounds point to dst. The depth test is dst's job.
// Output depends only on a and b.
func Rasterize(dst CellWriter, a, b float64) {
	sinA, cosA := math.Sincos(a)
	sinB, cosB := math.Sincos(b)

	for j := 0.0; j < 2*math.Pi; j += ThetaStep {
		sinJ, cosJ := math.Sincos(j)
		// Circle of the tube cross-section, pushed out to the major radius.
		h := MinorRadius*cosJ + MajorRadius

		for i := 0.0; i < 2*math.Pi; i += PhiStep {
			sinI, cosI := math.Sincos(i)

			invDepth := 1 / (sinI*h*sinA + sinJ*cosA + ViewerDistance)
			t := sinI*h*cosA - sinJ*sinA

			x := int(centerX + scaleX*invDepth*(cosI*h*cosB-t*sinB))
			y := int(centerY + scaleY*invDepth*(cosI*h*sinB+t*cosB))

			idx, ok := core.Index(x, y)
			if !ok {
				continue
			}

			n := int(luminanceScale * ((sinJ*sinA-sinI*cosJ*cosA)*cosB -
				sinI*cosJ*sinA - sinJ*cosA - cosI*cosJ*sinB))

			dst.WriteCell(idx, invDepth, Shade(n))
		}
	}
}

// Render rasterizes angles a and b into a fresh buffer and returns the frame.
func Render(a, b float64) core.Frame {
	buf := core.NewFrameBuffer()
	Rasterize(buf, a, b)
	return buf.Snapshot()
}
