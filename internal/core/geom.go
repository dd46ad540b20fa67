// Package core provides the fundamental types shared by the donut renderer:
// the frame buffer, the command vocabulary and runtime configuration.
// It has no terminal dependencies so the rendering core stays testable.
package core

// Index returns the row-major cell index for (x, y) and whether the point
// lies inside the ScreenW×ScreenH grid.
func Index(x, y int) (int, bool) {
	if x < 0 || x >= ScreenW || y < 0 || y >= ScreenH {
		return 0, false
	}
	return x + ScreenW*y, true
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
